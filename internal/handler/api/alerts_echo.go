package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	models "TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/internal/usecase"
	xhttp "TradeFire/pkg/http"
	"TradeFire/pkg/http/middleware"
	xlogger "TradeFire/pkg/logger"

	"github.com/labstack/echo/v4"
)

const serviceName = "TradeFire"

// AlertsEchoHandler exposes the webhook, subscriber and profile endpoints.
type AlertsEchoHandler struct {
	logger        *xlogger.Logger
	pipeline      *usecase.AlertPipeline
	senders       domrepo.Senders
	registry      domrepo.SubscriberRegistry
	profiles      domrepo.ProfileStore
	reports       domrepo.ReportStore
	metrics       domrepo.Metrics
	webhookSecret string
	now           func() time.Time
}

func NewAlertsEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.AlertPipeline,
	senders domrepo.Senders,
	registry domrepo.SubscriberRegistry,
	profiles domrepo.ProfileStore,
	reports domrepo.ReportStore,
	metrics domrepo.Metrics,
	webhookSecret string,
) *AlertsEchoHandler {
	return &AlertsEchoHandler{
		logger:        logger,
		pipeline:      pipeline,
		senders:       senders,
		registry:      registry,
		profiles:      profiles,
		reports:       reports,
		metrics:       metrics,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

func (h *AlertsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.POST("/webhook", h.Webhook, middleware.SharedSecret(h.webhookSecret, func(echo.Context) {
		h.metrics.RecordSignal("unauthorized")
	}))
	e.POST("/subscribe", h.Subscribe)

	g := e.Group("/api")
	g.GET("/subscribers", h.ListSubscribers)
	g.POST("/profile", h.CreateProfile)
	g.GET("/profile/:id", h.GetProfile)
	g.PATCH("/profile/:id", h.UpdateProfile)
	g.POST("/activate", h.ActivateProfile)
	g.GET("/reports/:id", h.GetReport)
}

func (h *AlertsEchoHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "TradeFire server is running")
}

func (h *AlertsEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":      true,
		"service": serviceName,
		"time":    h.now().UTC().Format(time.RFC3339),
	})
}

// Webhook runs one inbound signal through the alert pipeline.
func (h *AlertsEchoHandler) Webhook(c echo.Context) error {
	raw, err := decodeRawSignal(c.Request().Body)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("Missing signal data").WithError(err))
	}

	report, err := h.pipeline.Handle(c.Request().Context(), raw, h.senders)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":          true,
		"delivered":   report.Delivered,
		"subscribers": report.Subscribers,
		"results":     report.Results,
		"report_id":   report.ID,
	})
}

func (h *AlertsEchoHandler) Subscribe(c echo.Context) error {
	req := &models.SubscribeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	methods := make([]models.Channel, 0, len(req.AlertMethods))
	for _, m := range req.AlertMethods {
		ch, ok := models.ParseChannel(m)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.ValidationFailed("alertMethods", "unsupported alert method").WithParam("value", m))
		}
		methods = append(methods, ch)
	}

	id, err := h.registry.Register(c.Request().Context(), models.Subscriber{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		AlertMethods:   methods,
		SelectedTopics: req.SelectedTopics,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":    true,
		"id":    id,
		"total": h.registry.Count(),
	})
}

func (h *AlertsEchoHandler) ListSubscribers(c echo.Context) error {
	subs := h.registry.List(c.Request().Context())
	return xhttp.ListResponse(c, subs, int64(len(subs)))
}

func (h *AlertsEchoHandler) CreateProfile(c echo.Context) error {
	req := &models.CreateProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	id, err := h.profiles.Create(c.Request().Context(), req.Fields())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"profileId": id,
		"status":    models.ProfileDraft,
	})
}

func (h *AlertsEchoHandler) ActivateProfile(c echo.Context) error {
	req := &models.ActivateProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.profiles.Activate(c.Request().Context(), req.ProfileID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profileId":   p.ID,
		"status":      p.Status,
		"activatedAt": p.ActivatedAt,
	})
}

func (h *AlertsEchoHandler) GetProfile(c echo.Context) error {
	p, err := h.profiles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, p)
}

// UpdateProfile applies an allow-listed partial update.
func (h *AlertsEchoHandler) UpdateProfile(c echo.Context) error {
	var fields models.ProfileFields
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid JSON body").WithError(err))
	}

	p, err := h.profiles.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *AlertsEchoHandler) GetReport(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.reports.Get(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, r)
}

// fail maps domain errors onto HTTP responses.
func (h *AlertsEchoHandler) fail(c echo.Context, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		appErr := xhttp.ValidationFailed(strings.Join(ve.Fields, ","), ve.Reason)
		if len(ve.Fields) > 0 {
			appErr.WithParam("fields", ve.Fields)
		}
		return xhttp.AppErrorResponse(c, appErr)
	}

	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(nf.Error()).WithParam("id", nf.ID))
	}

	h.logger.Error("request failed",
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	)
	return xhttp.InternalServerErrorResponse(c)
}

func decodeRawSignal(body io.Reader) (models.RawSignal, error) {
	if body == nil {
		return nil, errors.New("empty body")
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw models.RawSignal
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty signal")
	}
	return raw, nil
}
