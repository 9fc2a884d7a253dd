package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/models"
)

const (
	sessionCookie = "cart_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session makes sure every request carries a cart session id, issuing a
// cookie when it is missing or malformed.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionCookie, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCookie)
}

type addItemReq struct {
	Kind     models.ItemKind `json:"kind" binding:"required"`
	ID       string          `json:"id" binding:"required"`
	Quantity int             `json:"quantity"`
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	v, err := h.carts.View(requestContext(c), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PageError{Error: "invalid json"})
		return
	}
	v, err := h.carts.Add(c.Request.Context(), sessionID(c), req.Kind, req.ID, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PATCH /cart/items/:kind/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PageError{Error: "invalid json"})
		return
	}
	kind := models.ItemKind(c.Param("kind"))
	v, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID(c), kind, c.Param("id"), req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /cart/items/:kind/:id
func (h *Handler) RemoveItem(c *gin.Context) {
	kind := models.ItemKind(c.Param("kind"))
	if err := h.carts.Remove(c.Request.Context(), sessionID(c), kind, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /cart/items/:kind/:id
func (h *Handler) ItemDetails(c *gin.Context) {
	kind := models.ItemKind(c.Param("kind"))
	d, err := h.carts.Details(requestContext(c), kind, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	next, err := h.carts.Checkout(ctx, sessionID(c))
	if errors.Is(err, cart.ErrEmptyCart) || errors.Is(err, cart.ErrCheckoutBlocked) {
		_ = c.Error(err)
		v, verr := h.carts.View(ctx, sessionID(c))
		if verr != nil {
			h.fail(c, verr)
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "cart": v})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": next})
}
