package api

import (
	"context"
	"errors"
	"log"
	"strconv"

	domaincart "github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/domain/discount"
	domainorder "github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	domainwishlist "github.com/WaqasAhmed27/namak-halal/domain/wishlist"
	"github.com/WaqasAhmed27/namak-halal/modules/admin"
	"github.com/WaqasAhmed27/namak-halal/modules/cart"
	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/identity"
	"github.com/WaqasAhmed27/namak-halal/modules/order"
	"github.com/WaqasAhmed27/namak-halal/modules/wishlist"
	"github.com/gofiber/fiber/v2"
)

// CatalogReader serves the storefront's product pages.
type CatalogReader interface {
	List(ctx context.Context, f product.Filter) catalog.Listing
	Featured(ctx context.Context, limit int) catalog.Listing
	GetBySlug(ctx context.Context, slug string) (*product.Product, bool, error)
	Related(ctx context.Context, p *product.Product, limit int) []product.Product
}

// Carts hands out the cart of a request's owner.
type Carts interface {
	For(owner cart.Owner) (*cart.Service, error)
	Reconcile(ctx context.Context, owner cart.Owner, lines []domaincart.Line) cart.ReconcileResult
}

// Checkout prices and places orders.
type Checkout interface {
	Quote(ctx context.Context, req order.QuoteRequest) (domainorder.Quote, error)
	Place(ctx context.Context, buyer *user.Identity, req domainorder.PlaceOrderRequest) (*order.PlaceOrderResult, error)
}

// OrderHistory serves a buyer's own orders.
type OrderHistory interface {
	ListForUser(ctx context.Context, buyer *user.Identity) ([]domainorder.Order, error)
	GetForUser(ctx context.Context, buyer *user.Identity, orderID string) (*domainorder.Order, error)
}

// Wishlist serves a signed-in user's saved products.
type Wishlist interface {
	List(ctx context.Context, id *user.Identity) ([]domainwishlist.Item, error)
	Add(ctx context.Context, id *user.Identity, productID string) error
	Remove(ctx context.Context, id *user.Identity, productID string) error
	Toggle(ctx context.Context, id *user.Identity, productID string) (bool, error)
}

// BackOffice serves the admin views.
type BackOffice interface {
	Dashboard(ctx context.Context, id *user.Identity) (*admin.Dashboard, error)
	ListProducts(ctx context.Context, id *user.Identity) ([]product.Product, error)
	GetProduct(ctx context.Context, id *user.Identity, productID string) (*product.Product, error)
	CreateProduct(ctx context.Context, id *user.Identity, req *product.CreateProductRequest) (*product.Product, error)
	UpdateProduct(ctx context.Context, id *user.Identity, productID string, req *product.UpdateProductRequest) (*product.Product, error)
	DeleteProduct(ctx context.Context, id *user.Identity, productID string) error
	ListOrders(ctx context.Context, id *user.Identity) ([]domainorder.Order, error)
	UpdateOrderStatus(ctx context.Context, id *user.Identity, orderID, status string) (*domainorder.Order, error)
	ListCustomers(ctx context.Context, id *user.Identity) ([]user.Customer, error)
}

// WebhookReceiver verifies and applies identity-provider deliveries.
type WebhookReceiver interface {
	HandleWebhook(ctx context.Context, h identity.Headers, body []byte) (identity.WebhookResult, error)
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	catalog  CatalogReader
	carts    Carts
	checkout Checkout
	orders   OrderHistory
	wishlist Wishlist
	admin    BackOffice
	webhooks WebhookReceiver
}

// Backends groups the components the handlers delegate to.
type Backends struct {
	Catalog  CatalogReader
	Carts    Carts
	Checkout Checkout
	Orders   OrderHistory
	Wishlist Wishlist
	Admin    BackOffice
	Webhooks WebhookReceiver
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(b Backends) *Handlers {
	return &Handlers{
		catalog:  b.Catalog,
		carts:    b.Carts,
		checkout: b.Checkout,
		orders:   b.Orders,
		wishlist: b.Wishlist,
		admin:    b.Admin,
		webhooks: b.Webhooks,
	}
}

// ListProducts handles GET /api/v1/products.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	f := product.Filter{
		Shape:  c.Query("shape"),
		Size:   c.Query("size"),
		Search: c.Query("search"),
		Sort:   c.Query("sort", product.SortFeatured),
	}
	var err error
	if f.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return badRequest(c, "min_price must be a number")
	}
	if f.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return badRequest(c, "max_price must be a number")
	}

	listing := h.catalog.List(c.UserContext(), f)
	return c.JSON(ProductListResponse{
		Products: listing.Products,
		Count:    len(listing.Products),
		Fallback: listing.Fallback,
	})
}

// FeaturedProducts handles GET /api/v1/products/featured.
func (h *Handlers) FeaturedProducts(c *fiber.Ctx) error {
	listing := h.catalog.Featured(c.UserContext(), c.QueryInt("limit", catalog.DefaultFeaturedLimit))
	return c.JSON(ProductListResponse{
		Products: listing.Products,
		Count:    len(listing.Products),
		Fallback: listing.Fallback,
	})
}

// GetProduct handles GET /api/v1/products/:slug.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	p, fallback, err := h.catalog.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.handleError(c, err)
	}

	related := []product.Product{}
	if !fallback {
		related = h.catalog.Related(c.UserContext(), p, catalog.DefaultRelatedLimit)
	}
	return c.JSON(ProductDetailResponse{Product: p, Related: related, Fallback: fallback})
}

// GetCart handles GET /api/v1/cart.
func (h *Handlers) GetCart(c *fiber.Ctx) error {
	svc, err := h.cartFor(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.cartResponse(c, fiber.StatusOK)(svc.Get(c.UserContext()))
}

// AddCartItem handles POST /api/v1/cart/items.
func (h *Handlers) AddCartItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	svc, err := h.cartFor(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.cartResponse(c, fiber.StatusCreated)(svc.Add(c.UserContext(), req.ProductID, qty))
}

// UpdateCartItem handles PATCH /api/v1/cart/items/:id.
func (h *Handlers) UpdateCartItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	svc, err := h.cartFor(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.cartResponse(c, fiber.StatusOK)(svc.UpdateQuantity(c.UserContext(), c.Params("id"), req.Quantity))
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id.
func (h *Handlers) RemoveCartItem(c *fiber.Ctx) error {
	svc, err := h.cartFor(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.cartResponse(c, fiber.StatusOK)(svc.Remove(c.UserContext(), c.Params("id")))
}

// ClearCart handles DELETE /api/v1/cart.
func (h *Handlers) ClearCart(c *fiber.Ctx) error {
	svc, err := h.cartFor(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.cartResponse(c, fiber.StatusOK)(svc.Clear(c.UserContext()))
}

// SyncCart handles POST /api/v1/cart/sync, merging the guest cart into the
// signed-in user's cart.
func (h *Handlers) SyncCart(c *fiber.Ctx) error {
	id := identityFrom(c)
	if !id.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Sign in to sync your cart",
		})
	}

	var req SyncCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res := h.carts.Reconcile(c.UserContext(), h.ownerOf(c), req.Items)
	return c.JSON(res)
}

// Quote handles POST /api/v1/checkout/quote.
func (h *Handlers) Quote(c *fiber.Ctx) error {
	var req order.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	q, err := h.checkout.Quote(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(q)
}

// PlaceOrder handles POST /api/v1/orders for guests and signed-in buyers.
func (h *Handlers) PlaceOrder(c *fiber.Ctx) error {
	var req domainorder.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	res, err := h.checkout.Place(c.UserContext(), identityFrom(c), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(PlaceOrderResponse{
		OrderID:     res.OrderID,
		OrderNumber: res.OrderNumber,
		Total:       res.Total,
	})
}

// AccountOrders handles GET /api/v1/account/orders.
func (h *Handlers) AccountOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListForUser(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// AccountOrder handles GET /api/v1/account/orders/:id.
func (h *Handlers) AccountOrder(c *fiber.Ctx) error {
	o, err := h.orders.GetForUser(c.UserContext(), identityFrom(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(o)
}

// ListWishlist handles GET /api/v1/account/wishlist.
func (h *Handlers) ListWishlist(c *fiber.Ctx) error {
	items, err := h.wishlist.List(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// AddToWishlist handles POST /api/v1/account/wishlist/:productId.
func (h *Handlers) AddToWishlist(c *fiber.Ctx) error {
	if err := h.wishlist.Add(c.UserContext(), identityFrom(c), c.Params("productId")); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ToggleWishlistResponse{ProductID: c.Params("productId"), Saved: true})
}

// RemoveFromWishlist handles DELETE /api/v1/account/wishlist/:productId.
func (h *Handlers) RemoveFromWishlist(c *fiber.Ctx) error {
	if err := h.wishlist.Remove(c.UserContext(), identityFrom(c), c.Params("productId")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleWishlist handles POST /api/v1/account/wishlist/:productId/toggle.
func (h *Handlers) ToggleWishlist(c *fiber.Ctx) error {
	saved, err := h.wishlist.Toggle(c.UserContext(), identityFrom(c), c.Params("productId"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(ToggleWishlistResponse{ProductID: c.Params("productId"), Saved: saved})
}

// AdminStats handles GET /api/v1/admin/stats.
func (h *Handlers) AdminStats(c *fiber.Ctx) error {
	d, err := h.admin.Dashboard(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(d)
}

// AdminListProducts handles GET /api/v1/admin/products.
func (h *Handlers) AdminListProducts(c *fiber.Ctx) error {
	products, err := h.admin.ListProducts(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// AdminGetProduct handles GET /api/v1/admin/products/:id.
func (h *Handlers) AdminGetProduct(c *fiber.Ctx) error {
	p, err := h.admin.GetProduct(c.UserContext(), identityFrom(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(p)
}

// AdminCreateProduct handles POST /api/v1/admin/products.
func (h *Handlers) AdminCreateProduct(c *fiber.Ctx) error {
	var req product.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	p, err := h.admin.CreateProduct(c.UserContext(), identityFrom(c), &req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// AdminUpdateProduct handles PUT /api/v1/admin/products/:id.
func (h *Handlers) AdminUpdateProduct(c *fiber.Ctx) error {
	var req product.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	p, err := h.admin.UpdateProduct(c.UserContext(), identityFrom(c), c.Params("id"), &req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(p)
}

// AdminDeleteProduct handles DELETE /api/v1/admin/products/:id.
func (h *Handlers) AdminDeleteProduct(c *fiber.Ctx) error {
	if err := h.admin.DeleteProduct(c.UserContext(), identityFrom(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListOrders handles GET /api/v1/admin/orders.
func (h *Handlers) AdminListOrders(c *fiber.Ctx) error {
	orders, err := h.admin.ListOrders(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// AdminUpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status.
func (h *Handlers) AdminUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	o, err := h.admin.UpdateOrderStatus(c.UserContext(), identityFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(o)
}

// AdminListCustomers handles GET /api/v1/admin/customers.
func (h *Handlers) AdminListCustomers(c *fiber.Ctx) error {
	customers, err := h.admin.ListCustomers(c.UserContext(), identityFrom(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"customers": customers, "count": len(customers)})
}

// IdentityWebhook handles POST /api/webhooks/identity.
func (h *Handlers) IdentityWebhook(c *fiber.Ctx) error {
	headers := identity.Headers{
		ID:        c.Get("svix-id"),
		Timestamp: c.Get("svix-timestamp"),
		Signature: c.Get("svix-signature"),
	}
	res, err := h.webhooks.HandleWebhook(c.UserContext(), headers, c.Body())
	if err != nil {
		return h.handleWebhookError(c, err)
	}
	return c.JSON(res)
}

func (h *Handlers) ownerOf(c *fiber.Ctx) cart.Owner {
	owner := cart.Owner{SessionID: sessionFrom(c)}
	if id := identityFrom(c); id.Authenticated() {
		owner.UserID = id.UserID
	}
	return owner
}

func (h *Handlers) cartFor(c *fiber.Ctx) (*cart.Service, error) {
	return h.carts.For(h.ownerOf(c))
}

// cartResponse adapts a cart operation's return values into a response.
func (h *Handlers) cartResponse(c *fiber.Ctx, status int) func(domaincart.Cart, error) error {
	return func(ct domaincart.Cart, err error) error {
		if err != nil {
			return h.handleError(c, err)
		}
		return c.Status(status).JSON(ct)
	}
}

// handleError maps service errors to HTTP responses.
func (h *Handlers) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wishlist.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		})
	case errors.Is(err, admin.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, domainorder.ErrNotFound),
		errors.Is(err, domaincart.ErrItemNotFound),
		errors.Is(err, user.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, product.ErrDuplicateSlug):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, cart.ErrGuestCartUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "unavailable",
			Message: err.Error(),
		})
	case isValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	default:
		log.Printf("[api] Error: %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "server_error",
			Message: "Internal server error",
		})
	}
}

var validationErrors = []error{
	product.ErrNameRequired,
	product.ErrInvalidPrice,
	product.ErrInvalidStock,
	product.ErrSlugRequired,
	product.ErrNoUpdateField,
	product.ErrInvalidQuantity,
	domaincart.ErrInvalidQuantity,
	domaincart.ErrProductRequired,
	domainwishlist.ErrProductRequired,
	domainorder.ErrInvalidStatus,
	domainorder.ErrEmailRequired,
	domainorder.ErrAddressIncomplete,
	domainorder.ErrNoItems,
	domainorder.ErrInvalidItem,
	domainorder.ErrInvalidShippingMethod,
	order.ErrInvalidPromoCode,
	order.ErrProductUnavailable,
	discount.ErrInvalidCode,
	discount.ErrBelowMinimum,
	cart.ErrNoOwner,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleWebhookError maps verification failures to 400 and a missing
// secret to 500.
func (h *Handlers) handleWebhookError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, identity.ErrMissingSecret):
		log.Printf("[api] Error: identity webhook received but no secret is configured")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "server_error",
			Message: "Webhook secret not configured",
		})
	case errors.Is(err, identity.ErrMissingHeaders),
		errors.Is(err, identity.ErrInvalidSignature),
		errors.Is(err, identity.ErrTimestampOutOfRange),
		errors.Is(err, identity.ErrInvalidPayload),
		errors.Is(err, identity.ErrMissingUserID):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	default:
		return h.handleError(c, err)
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
