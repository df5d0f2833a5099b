package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/soapshop/internal/cart"
	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/abgdnv/soapshop/pkg/logger"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/google/uuid"
)

var errItemNotInCart = errors.New("item not in cart")

// AddItemDto adds a catalogue product to the cart. A missing quantity adds one.
type AddItemDto struct {
	ID       string `json:"id"       validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=999"`
}

// UpdateQuantityDto sets a line item quantity. Zero or less removes the item.
type UpdateQuantityDto struct {
	Quantity *int `json:"quantity" validate:"required,lte=999"`
}

// CartResponse is the cart together with its checkout totals.
type CartResponse struct {
	Items   []cart.LineItem `json:"items"`
	Summary cart.Summary    `json:"summary"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{Items: c.Items(), Summary: cart.Summarize(c)}
}

// GetCart returns the session's cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := h.cartSession(w, r)
	ctx := logger.AppendCtx(r.Context(), slog.String("cart_session", sessionID))
	mLogger := h.loggerWithReqID(r)

	c, err := h.Carts.Load(ctx, sessionID)
	if err != nil {
		mLogger.ErrorContext(ctx, "Error loading cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, newCartResponse(c))
}

// AddItem snapshots a catalogue product into the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto AddItemDto
	if err := web.DecodeJSON(r, &dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondValidationError(w, r, mLogger, err)
		return
	}

	product, err := h.Products.FindByID(r.Context(), dto.ID)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) || errors.Is(err, perrors.ErrInvalidProductID) {
			mLogger.WarnContext(r.Context(), "Product not found for cart", "ID", dto.ID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", dto.ID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", dto.ID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	item := cart.LineItem{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    dto.Quantity,
	}
	h.mutateCart(w, r, "add", func(c *cart.Cart) error {
		c.Add(item)
		return nil
	})
}

// UpdateItem sets the quantity of a line item.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.PathID(w, r, mLogger)
	if !ok {
		return
	}
	var dto UpdateQuantityDto
	if err := web.DecodeJSON(r, &dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondValidationError(w, r, mLogger, err)
		return
	}
	h.mutateCart(w, r, "update", func(c *cart.Cart) error {
		if !c.Contains(id) {
			return errItemNotInCart
		}
		c.UpdateQuantity(id, *dto.Quantity)
		return nil
	})
}

// RemoveItem drops a line item. Removing an absent item is not an error.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.PathID(w, r, mLogger)
	if !ok {
		return
	}
	h.mutateCart(w, r, "remove", func(c *cart.Cart) error {
		c.Remove(id)
		return nil
	})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// mutateCart applies fn under the session lock and writes the resulting cart.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op string, fn func(*cart.Cart) error) {
	sessionID := h.cartSession(w, r)
	ctx := logger.AppendCtx(r.Context(), slog.String("cart_session", sessionID), slog.String("operation", op))
	mLogger := h.loggerWithReqID(r)

	c, err := h.Carts.Update(ctx, sessionID, fn)
	if err != nil {
		switch {
		case errors.Is(err, errItemNotInCart):
			mLogger.WarnContext(ctx, "Item not in cart")
			web.RespondError(w, mLogger, http.StatusNotFound, "Item not in cart")
		case errors.Is(err, cart.ErrSessionLocked):
			mLogger.WarnContext(ctx, "Cart is busy")
			web.RespondError(w, mLogger, http.StatusConflict, "Cart is being updated, please retry")
		default:
			mLogger.ErrorContext(ctx, "Error updating cart", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update cart")
		}
		return
	}
	h.Metrics.CartOperation(op)
	mLogger.InfoContext(ctx, "Cart updated", "items", c.TotalItems())
	web.RespondJSON(w, mLogger, http.StatusOK, newCartResponse(c))
}

// cartSession returns the session id from the cookie, issuing a new one when absent or malformed.
func (h *Handler) cartSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(h.Session.CookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
