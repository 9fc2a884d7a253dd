package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/models"
)

// Content is the read side of the backend the pages render.
type Content interface {
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
	Teams(ctx context.Context) ([]models.TeamMember, error)
	PublishedBlogs(ctx context.Context) ([]models.BlogPost, error)
	BusinessDetails(ctx context.Context) (*models.BusinessDetails, error)
	SubmitContact(ctx context.Context, msg models.ContactMessage) (*models.ContactResponse, error)
}

type Handler struct {
	content    Content
	carts      *cart.Service
	mapsAPIKey string
	log        *zap.Logger
}

func New(content Content, carts *cart.Service, mapsAPIKey string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		content:    content,
		carts:      carts,
		mapsAPIKey: mapsAPIKey,
		log:        log.Named("handlers"),
	}
}

// PageError is the error state of a page or page section. Retry is the path
// that re-runs the failed fetch.
type PageError struct {
	Error string `json:"error"`
	Retry string `json:"retry,omitempty"`
}

// requestContext returns the request context, marked to bypass the response
// cache when the shopper pressed retry (?refresh=1).
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if v := c.Query("refresh"); v == "1" || v == "true" {
		ctx = backend.WithRefresh(ctx)
	}
	return ctx
}

func retryPath(c *gin.Context) string {
	q := c.Request.URL.Query()
	q.Set("refresh", "1")
	return c.Request.URL.Path + "?" + q.Encode()
}

func mapErrorToStatus(err error) int {
	var (
		se *backend.StatusError
		ue *url.Error
	)
	switch {
	case errors.Is(err, cart.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrCheckoutBlocked):
		return http.StatusConflict
	case errors.Is(err, backend.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &se), errors.Is(err, backend.ErrRejected), errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides backend internals from shoppers.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		return "The store is not configured yet. Please try again later."
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return "We couldn't load this right now. Please try again."
	case http.StatusInternalServerError:
		return "Something went wrong. Please try again."
	default:
		return err.Error()
	}
}

// pageError turns err into a PageError and logs it.
func (h *Handler) pageError(c *gin.Context, err error) (int, *PageError) {
	status := mapErrorToStatus(err)
	if status >= 500 {
		h.log.Warn("page fetch failed", zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	return status, &PageError{Error: publicMessage(err, status), Retry: retryPath(c)}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, pe := h.pageError(c, err)
	c.JSON(status, pe)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
