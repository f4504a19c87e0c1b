// Package order places orders and serves order history, status changes and
// dashboard aggregates.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/discount"
	domain "github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/hooks"
)

// maxNumberAttempts bounds order number regeneration on a unique collision.
const maxNumberAttempts = 3

var (
	// ErrInvalidPromoCode is returned when a submitted promo code cannot be applied.
	ErrInvalidPromoCode = errors.New("invalid promo code")
	// ErrOrderNumberExhausted is returned when every generated order number collided.
	ErrOrderNumberExhausted = errors.New("could not generate a unique order number")
	// ErrProductUnavailable is returned for a line whose product is unknown or inactive.
	ErrProductUnavailable = errors.New("product is not available")
)

// Catalog prices checkout lines and lowers stock after a sale.
type Catalog interface {
	GetProducts(ctx context.Context, ids []string) ([]product.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error
}

// CartClearer empties a signed-in buyer's cart.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

// PlacedPublisher announces a stored order.
type PlacedPublisher func(event events.OrderPlacedEvent) error

// PlaceOrderResult is returned by Writer.Place. Hooks stays server-side.
type PlaceOrderResult struct {
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	Total       float64        `json:"total"`
	Hooks       []hooks.Result `json:"-"`
}

// QuoteRequest prices a checkout without placing it.
type QuoteRequest struct {
	Items          []domain.LineItem `json:"items"`
	ShippingMethod string            `json:"shipping_method"`
	PromoCode      string            `json:"promo_code,omitempty"`
}

// Writer is the only component that creates orders and order items.
type Writer struct {
	orders    *domain.Repository
	discounts *discount.Repository
	catalog   Catalog
	carts     CartClearer
	publish   PlacedPublisher
	newNumber domain.NumberGenerator
	now       func() time.Time
}

// NewWriter creates an order writer. carts and publish may be nil, in which
// case the matching post-commit hook is skipped.
func NewWriter(
	orders *domain.Repository,
	discounts *discount.Repository,
	catalog Catalog,
	carts CartClearer,
	publish PlacedPublisher,
	newNumber domain.NumberGenerator,
) *Writer {
	return &Writer{
		orders:    orders,
		discounts: discounts,
		catalog:   catalog,
		carts:     carts,
		publish:   publish,
		newNumber: newNumber,
		now:       time.Now,
	}
}

// Quote prices the lines with the same rules Place persists.
func (w *Writer) Quote(ctx context.Context, req QuoteRequest) (domain.Quote, error) {
	method, err := domain.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		return domain.Quote{}, err
	}
	if len(req.Items) == 0 {
		return domain.Quote{}, domain.ErrNoItems
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return domain.Quote{}, domain.ErrInvalidItem
		}
	}
	items, err := w.price(ctx, req.Items)
	if err != nil {
		return domain.Quote{}, err
	}
	return w.quote(ctx, items, method, req.PromoCode)
}

// price replaces each line's name and price with the catalog's current values.
func (w *Writer) price(ctx context.Context, lines []domain.LineItem) ([]domain.LineItem, error) {
	ids := make([]string, len(lines))
	for i, it := range lines {
		ids[i] = it.ProductID
	}
	products, err := w.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout products: %w", err)
	}
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	priced := make([]domain.LineItem, len(lines))
	for i, it := range lines {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, it.ProductID)
		}
		priced[i] = domain.LineItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			Quantity:     it.Quantity,
		}
	}
	return priced, nil
}

func (w *Writer) quote(ctx context.Context, items []domain.LineItem, method domain.ShippingMethod, promo string) (domain.Quote, error) {
	promo = discount.Normalize(promo)
	if promo == "" {
		return domain.NewQuote(items, method, 0, ""), nil
	}

	code, err := w.discounts.FindByCode(ctx, promo)
	if err != nil {
		if errors.Is(err, discount.ErrInvalidCode) {
			return domain.Quote{}, fmt.Errorf("%w: %s", ErrInvalidPromoCode, promo)
		}
		return domain.Quote{}, err
	}
	amount, err := code.Amount(domain.Subtotal(items), w.now())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %w", ErrInvalidPromoCode, err)
	}
	return domain.NewQuote(items, method, amount, code.Code), nil
}

// Place validates the checkout, prices it from the catalog, stores the
// order header and items, then runs the post-commit hooks. buyer may be nil
// for a guest. Hook failures are logged and never fail the order.
func (w *Writer) Place(ctx context.Context, buyer *user.Identity, req domain.PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	method, _ := domain.ParseShippingMethod(req.ShippingMethod)

	priced, err := w.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	req.Items = priced

	q, err := w.quote(ctx, req.Items, method, req.PromoCode)
	if err != nil {
		return nil, err
	}

	o := w.newOrder(buyer, req, q)
	if err := w.createHeader(ctx, o); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		productID := it.ProductID
		items[i] = domain.OrderItem{
			OrderID:      o.ID,
			ProductID:    &productID,
			ProductName:  it.ProductName,
			ProductPrice: it.ProductPrice,
			Quantity:     it.Quantity,
			CreatedAt:    o.CreatedAt,
		}
	}
	if err := w.orders.CreateItems(ctx, items); err != nil {
		if delErr := w.orders.DeleteHeader(ctx, o.ID); delErr != nil {
			log.Printf("[order] Warning: failed to remove header of order %s after item failure: %v", o.OrderNumber, delErr)
		}
		return nil, err
	}
	o.Items = items

	log.Printf("[order] Placed order %s (total %.2f, %d lines)", o.OrderNumber, o.Total, len(items))

	rec := w.runHooks(ctx, buyer, o, req)
	if n := rec.Failed(); n > 0 {
		log.Printf("[order] Warning: %d post-commit hooks failed for order %s", n, o.OrderNumber)
	}
	return &PlaceOrderResult{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Total:       o.Total,
		Hooks:       rec.Results(),
	}, nil
}

func (w *Writer) newOrder(buyer *user.Identity, req domain.PlaceOrderRequest, q domain.Quote) *domain.Order {
	now := w.now()
	email := strings.TrimSpace(req.Email)
	o := &domain.Order{
		Status:          domain.StatusPending,
		Subtotal:        q.Subtotal,
		ShippingCost:    q.ShippingCost,
		DiscountAmount:  q.DiscountAmount,
		Total:           q.Total,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		PaymentMethod:   domain.PaymentCashOnDelivery,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if buyer.Authenticated() {
		userID := buyer.UserID
		o.UserID = &userID
	} else {
		o.GuestEmail = &email
	}
	if q.PromoCode != "" {
		promo := q.PromoCode
		o.PromoCode = &promo
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		o.Notes = &notes
	}
	return o
}

func (w *Writer) createHeader(ctx context.Context, o *domain.Order) error {
	for range maxNumberAttempts {
		o.ID = ""
		o.OrderNumber = w.newNumber()
		err := w.orders.CreateHeader(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
			return err
		}
		log.Printf("[order] Warning: order number %s collided, regenerating", o.OrderNumber)
	}
	return ErrOrderNumberExhausted
}

func (w *Writer) runHooks(ctx context.Context, buyer *user.Identity, o *domain.Order, req domain.PlaceOrderRequest) *hooks.Recorder {
	rec := &hooks.Recorder{}

	for _, it := range req.Items {
		rec.Run(ctx, "decrement-stock:"+it.ProductID, func(ctx context.Context) error {
			return w.catalog.DecrementStock(ctx, it.ProductID, it.Quantity)
		})
	}

	if o.PromoCode != nil {
		rec.Run(ctx, "redeem-promo", func(ctx context.Context) error {
			return w.discounts.Redeem(ctx, *o.PromoCode)
		})
	}

	if buyer.Authenticated() && w.carts != nil {
		rec.Run(ctx, "clear-cart", func(ctx context.Context) error {
			return w.carts.ClearCart(ctx, buyer.UserID)
		})
	}

	if w.publish != nil {
		rec.Run(ctx, "publish-order-placed", func(context.Context) error {
			return w.publish(placedEvent(buyer, o, req))
		})
	}
	return rec
}

func placedEvent(buyer *user.Identity, o *domain.Order, req domain.PlaceOrderRequest) events.OrderPlacedEvent {
	lines := make([]events.OrderLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = events.OrderLine{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductPrice: it.ProductPrice,
			Quantity:     it.Quantity,
		}
	}
	evt := events.OrderPlacedEvent{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Email:          strings.TrimSpace(req.Email),
		CustomerName:   o.ShippingAddress.FullName,
		City:           o.ShippingAddress.City,
		Phone:          o.ShippingAddress.Phone,
		Items:          lines,
		Subtotal:       o.Subtotal,
		ShippingCost:   o.ShippingCost,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		ShippingMethod: o.ShippingMethod,
		PlacedAt:       o.CreatedAt,
	}
	if buyer.Authenticated() {
		evt.UserID = buyer.UserID
	}
	return evt
}
