package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds one delivery to the notification endpoint.
const DefaultTimeout = 5 * time.Second

// ErrNotConfigured is returned when no endpoint URL is set.
var ErrNotConfigured = errors.New("order notification endpoint not configured")

// Config holds the external endpoint settings.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Payload is the body POSTed to the notification endpoint.
type Payload struct {
	Event          string  `json:"event"`
	ID             string  `json:"id"`
	OrderNumber    string  `json:"order_number"`
	Email          string  `json:"email,omitempty"`
	CustomerName   string  `json:"customer_name,omitempty"`
	City           string  `json:"city,omitempty"`
	Status         string  `json:"status,omitempty"`
	Total          float64 `json:"total,omitempty"`
	FormattedTotal string  `json:"formatted_total,omitempty"`
	ItemCount      int     `json:"item_count,omitempty"`
}

// Sender delivers a payload to the notification endpoint.
type Sender interface {
	Send(p Payload) error
}

// HTTPSender POSTs JSON with a bearer token using Fiber's HTTP client.
type HTTPSender struct {
	cfg Config
}

// NewHTTPSender creates a sender for the endpoint.
func NewHTTPSender(cfg Config) *HTTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &HTTPSender{cfg: cfg}
}

// Configured reports whether an endpoint URL is set.
func (s *HTTPSender) Configured() bool {
	return s.cfg.URL != ""
}

// Send POSTs the payload. Any non-2xx answer is an error.
func (s *HTTPSender) Send(p Payload) error {
	if s.cfg.URL == "" {
		return ErrNotConfigured
	}

	agent := fiber.Post(s.cfg.URL).Timeout(s.cfg.Timeout).JSON(p)
	if s.cfg.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+s.cfg.Token)
	}

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("failed to prepare notification request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to post notification: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("notification endpoint returned %d: %s", code, body)
	}
	return nil
}
