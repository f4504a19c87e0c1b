// Package notification forwards order events to the external order
// notification endpoint. Delivery is best-effort and never retried.
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/money"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/hooks"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// maxDeliveries caps the in-memory delivery log.
const maxDeliveries = 100

// Delivery records one notification attempt.
type Delivery struct {
	Event       string    `json:"event"`
	OrderNumber string    `json:"order_number"`
	OK          bool      `json:"ok"`
	Skipped     bool      `json:"skipped"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Module consumes order events and notifies the external endpoint.
type Module struct {
	sender     Sender
	deliveries []Delivery
	mu         sync.RWMutex
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a notification module posting to cfg.URL.
func NewModule(cfg Config) *Module {
	return &Module{sender: NewHTTPSender(cfg), deliveries: make([]Delivery, 0)}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notification"
}

// RegisterEventConsumers subscribes to order events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderPlacedV1, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderStatusChangedV1, m.handleOrderStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register OrderStatusChanged consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: OrderPlaced, OrderStatusChanged")
	return nil
}

func (m *Module) handleOrderPlaced(ctx context.Context, event events.OrderPlacedEvent, _ *mono.Msg) error {
	items := 0
	for _, l := range event.Items {
		items += l.Quantity
	}
	m.deliver(ctx, Payload{
		Event:          "order.placed",
		ID:             event.OrderID,
		OrderNumber:    event.OrderNumber,
		Email:          event.Email,
		CustomerName:   event.CustomerName,
		City:           event.City,
		Total:          event.Total,
		FormattedTotal: money.FormatPKR(event.Total),
		ItemCount:      items,
	})
	return nil
}

func (m *Module) handleOrderStatusChanged(ctx context.Context, event events.OrderStatusChangedEvent, _ *mono.Msg) error {
	m.deliver(ctx, Payload{
		Event:  "order.status_changed",
		ID:     event.OrderID,
		Status: event.Status,
	})
	return nil
}

// deliver sends the payload best-effort and records the outcome.
func (m *Module) deliver(ctx context.Context, p Payload) {
	res := hooks.RunBestEffort(ctx, "notify:"+p.Event, func(context.Context) error {
		return m.sender.Send(p)
	})

	d := Delivery{
		Event:       p.Event,
		OrderNumber: p.OrderNumber,
		OK:          res.OK,
		Error:       res.Error,
		Timestamp:   time.Now(),
	}
	if !res.OK && res.Error == ErrNotConfigured.Error() {
		d.Skipped = true
	}
	m.record(d)
}

func (m *Module) record(d Delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deliveries = append(m.deliveries, d)
	if len(m.deliveries) > maxDeliveries {
		m.deliveries = m.deliveries[len(m.deliveries)-maxDeliveries:]
	}
}

// GetDeliveries returns the recent delivery attempts, oldest first.
func (m *Module) GetDeliveries() []Delivery {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Delivery, len(m.deliveries))
	copy(result, m.deliveries)
	return result
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	if s, ok := m.sender.(*HTTPSender); ok && !s.Configured() {
		log.Println("[notification] Warning: ORDER_NOTIFY_URL not set, notifications are skipped")
	}
	log.Println("[notification] Module started - listening for order events")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
