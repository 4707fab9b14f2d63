package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	pkghttp "TradeFire/pkg/http"
)

// TwilioConfig holds the REST credentials used for SMS.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
}

// SMSSender delivers alerts through the Twilio Messages API.
type SMSSender struct {
	client   *pkghttp.Client
	cfg      TwilioConfig
	endpoint string
}

var _ domrepo.ChannelSender = (*SMSSender)(nil)

type twilioMessage struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func NewSMSSender(client *pkghttp.Client, cfg TwilioConfig) *SMSSender {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.twilio.com"
	}
	return &SMSSender{
		client:   client,
		cfg:      cfg,
		endpoint: fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, url.PathEscape(cfg.AccountSID)),
	}
}

func (s *SMSSender) Send(ctx context.Context, destination, _, body string) error {
	form := url.Values{}
	form.Set("To", destination)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	var msg twilioMessage
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodPost,
		URL:     s.endpoint,
		Headers: map[string]string{"Content-Type": pkghttp.ContentTypeForm},
		Auth:    &pkghttp.BasicAuth{Username: s.cfg.AccountSID, Password: s.cfg.AuthToken},
		Body:    form,
	}, &msg)
	if err == nil && (msg.Status == "failed" || msg.Status == "undelivered") {
		err = fmt.Errorf("twilio status %s: %s", msg.Status, msg.ErrorMessage)
	}
	if err != nil {
		var se *pkghttp.StatusError
		if errors.As(err, &se) {
			err = fmt.Errorf("twilio rejected message (%d): %s", se.StatusCode, se.Body)
		}
		return &models.DeliveryError{Channel: models.ChannelSMS, Destination: destination, Err: err}
	}
	return nil
}
