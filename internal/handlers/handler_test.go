package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront/internal/backend"
	"storefront/internal/cart"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{cart.ErrInvalidKind, http.StatusBadRequest},
		{cart.ErrUnknownItem, http.StatusNotFound},
		{cart.ErrOutOfStock, http.StatusConflict},
		{cart.ErrEmptyCart, http.StatusConflict},
		{fmt.Errorf("checkout: %w", cart.ErrCheckoutBlocked), http.StatusConflict},
		{fmt.Errorf("load products: %w", backend.ErrNotConfigured), http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{&backend.StatusError{Method: "GET", Path: "/api/teams", StatusCode: 500}, http.StatusBadGateway},
		{fmt.Errorf("x: %w", backend.ErrRejected), http.StatusBadGateway},
		{&url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapErrorToStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.4:5000: connection refused")
	assert.NotContains(t, publicMessage(err, http.StatusBadGateway), "10.0.0.4")
	assert.Equal(t, cart.ErrOutOfStock.Error(), publicMessage(cart.ErrOutOfStock, http.StatusConflict))
}

func TestRetryPathAddsRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/blog?tag=oil", nil)

	assert.Equal(t, "/blog?refresh=1&tag=oil", retryPath(c))
}

func TestSessionIssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/s", Session(), func(c *gin.Context) { c.String(http.StatusOK, sessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/s", nil))
	cookies := w.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, w.Body.String())
	}
}
