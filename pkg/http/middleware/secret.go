package middleware

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HeaderWebhookSecret carries the shared secret on webhook calls.
const HeaderWebhookSecret = "X-Webhook-Secret"

// SharedSecret rejects requests that do not present secret either in the
// X-Webhook-Secret header or as a top-level "secret" JSON field. An empty
// secret disables the check.
func SharedSecret(secret string, onReject func(c echo.Context)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			if matches(c.Request().Header.Get(HeaderWebhookSecret), secret) || bodySecretMatches(c, secret) {
				return next(c)
			}
			if onReject != nil {
				onReject(c)
			}
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": "invalid webhook secret",
			})
		}
	}
}

// bodySecretMatches peeks at the JSON body and restores it for the handler.
func bodySecretMatches(c echo.Context, secret string) bool {
	req := c.Request()
	if req.Body == nil {
		return false
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return false
	}
	var probe struct {
		Secret string `json:"secret"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return false
	}
	return matches(probe.Secret, secret)
}

func matches(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
