package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrNoWebhook is returned by Submit when no webhook URL is configured.
var ErrNoWebhook = errors.New("lead webhook not configured")

// Lead is a sign-up from the landing page CTA.
type Lead struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

func (l *Lead) normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
}

// Validate checks the lead before it is forwarded.
func (l Lead) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&l.Email, validation.Required, is.EmailFormat),
	)
}

// FirstName is the greeting used on the thank-you state.
func (l Lead) FirstName() string {
	if f := strings.Fields(l.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}

type leadLogger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// LeadClient forwards leads to an external webhook as JSON. Any HTTP
// response counts as delivered; only transport errors fail. There is no
// retry.
type LeadClient struct {
	webhookURL string
	client     *http.Client
	logger     leadLogger
}

// NewLeadClient creates a LeadClient posting to webhookURL.
func NewLeadClient(webhookURL string, client *http.Client, logger leadLogger) *LeadClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &LeadClient{webhookURL: webhookURL, client: client, logger: logger}
}

// Submit posts lead to the webhook and returns the submission id used in logs.
func (lc *LeadClient) Submit(ctx context.Context, lead Lead) (string, error) {
	if lc.webhookURL == "" {
		return "", ErrNoWebhook
	}
	id := uuid.NewString()

	body, err := json.Marshal(lead)
	if err != nil {
		return "", fmt.Errorf("encode lead: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lc.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build lead request: %w", err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	resp, err := lc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deliver lead %s: %w", id, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		lc.logger.Warnf("lead %s: webhook answered %d", id, resp.StatusCode)
	} else {
		lc.logger.Infof("lead %s delivered", id)
	}
	return id, nil
}

const (
	flashLead      = "lead"
	flashLeadError = "lead_error"
)

func (a *App) handleLead(c echo.Context) error {
	if !a.leadLimiter.Allow(c.RealIP()) {
		return a.leadResult(c, http.StatusTooManyRequests, "Too many sign-ups from your network. Please try again in a minute.", "", "")
	}

	var lead Lead
	if err := c.Bind(&lead); err != nil {
		return a.leadResult(c, http.StatusBadRequest, "Could not read your sign-up.", "", "")
	}
	lead.normalize()
	if err := lead.Validate(); err != nil {
		return a.leadResult(c, http.StatusUnprocessableEntity, err.Error(), "", "")
	}

	id, err := a.Leads.Submit(c.Request().Context(), lead)
	switch {
	case errors.Is(err, ErrNoWebhook):
		c.Logger().Errorf("lead rejected: %v", err)
		return a.leadResult(c, http.StatusServiceUnavailable, "Sign-ups are closed right now.", "", "")
	case err != nil:
		c.Logger().Errorf("lead failed: %v", err)
		return a.leadResult(c, http.StatusBadGateway, "Something went wrong. Please try again.", "", "")
	}
	return a.leadResult(c, http.StatusOK, "", id, lead.FirstName())
}

// leadResult answers JSON callers directly and sends form posts back to the
// CTA section with a flash message.
func (a *App) leadResult(c echo.Context, code int, msg, id, firstName string) error {
	if wantsJSON(c) {
		if code == http.StatusOK {
			return c.JSON(code, map[string]interface{}{"ok": true, "id": id})
		}
		return c.JSON(code, map[string]interface{}{"ok": false, "error": msg})
	}

	key, value := flashLeadError, msg
	if code == http.StatusOK {
		key, value = flashLead, firstName
		if value == "" {
			value = "friend"
		}
	}
	if err := addFlash(c, key, value); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/#cta")
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
