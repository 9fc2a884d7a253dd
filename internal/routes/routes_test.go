package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/backend"
	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/handlers"
	"storefront/internal/repository"
)

// fakeBackend serves the store API. stock is the quantity of product p1 and
// contactStatus the status answered to contact submissions.
type fakeBackend struct {
	stock         atomic.Int64
	contactStatus atomic.Int64
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	write := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/product/list", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{
			"success": true,
			"products": []map[string]any{
				{"_id": "p1", "name": "Argan Oil", "price": 1200, "discountprice": 1000, "quantity": f.stock.Load()},
				{"_id": "p2", "name": "Rose Water", "price": 400, "quantity": 0},
			},
		})
	})
	mux.HandleFunc("/api/deal/list", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{
			"success": true,
			"deals": []map[string]any{{
				"_id": "d1", "dealName": "Glow Kit", "dealTotal": 1600, "dealFinalPrice": 1400,
				"dealProducts": []map[string]any{{"_id": "p1", "name": "Argan Oil", "price": 1200, "quantity": 1}},
			}},
		})
	})
	mux.HandleFunc("/api/testimonials", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"name": "Sana", "rating": 5, "content": "Lovely", "status": "pending"},
		}})
	})
	mux.HandleFunc("/api/teams", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []map[string]any{
			{"name": "Ali", "role": "Founder", "order": 1, "isActive": true},
			{"name": "Old", "role": "Intern", "order": 0, "isActive": false},
		})
	})
	mux.HandleFunc("/api/business-details", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"company":  map[string]any{"name": "SZ Naturals"},
			"location": map[string]any{"displayAddress": "12 Mall Road, Lahore"},
		}})
	})
	mux.HandleFunc("/api/blogs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "published", r.URL.Query().Get("status"))
		write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"_id": "b1", "title": "Hair oiling 101", "category": "Haircare", "tags": []string{"oil"}, "createdAt": "2024-03-05T09:00:00Z"},
			{"_id": "b2", "title": "Sunscreen myths", "category": "Skincare", "createdAt": "2024-03-09T09:00:00Z"},
		}})
	})
	mux.HandleFunc("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		if s := int(f.contactStatus.Load()); s >= 300 {
			write(w, s, map[string]any{"success": false, "message": "Mail server unavailable"})
			return
		}
		write(w, http.StatusOK, map[string]any{"success": true, "message": "Thanks, we will reply soon"})
	})
	return mux
}

func setupRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	return setupRouterWith(t, backend.New(backendURL, time.Second, nil, zap.NewNop()), nil)
}

func setupRouterWith(t *testing.T, api *backend.Client, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	shop := cart.NewService(repository.NewMemoryCarts(), api, decimal.NewFromInt(200), zap.NewNop())
	h := handlers.New(api, shop, "", zap.NewNop())
	return NewRouter(h, origins, zap.NewNop())
}

func newStore(t *testing.T) (*gin.Engine, *fakeBackend) {
	t.Helper()
	f := &fakeBackend{}
	f.stock.Store(3)
	f.contactStatus.Store(http.StatusOK)
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return setupRouter(t, srv.URL), f
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "cart_session" {
			return c
		}
	}
	t.Fatal("no cart_session cookie issued")
	return nil
}

func TestHealth(t *testing.T) {
	r, _ := newStore(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAbout_NoApprovedTestimonialsIsEmptyState(t *testing.T) {
	r, _ := newStore(t)
	w := doJSON(t, r, http.MethodGet, "/about", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode(t, w)
	testimonials := page["testimonials"].(map[string]any)
	assert.Nil(t, testimonials["error"])
	assert.Equal(t, true, testimonials["data"].(map[string]any)["empty"])

	team := page["team"].(map[string]any)["data"].([]any)
	require.Len(t, team, 1)
	assert.Equal(t, "Ali", team[0].(map[string]any)["name"])
	assert.Len(t, page["policies"], 3)
}

func TestBlog_UnknownTagIsEmptyListing(t *testing.T) {
	r, _ := newStore(t)
	w := doJSON(t, r, http.MethodGet, "/blog?tag=nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode(t, w)
	assert.EqualValues(t, 0, listing["total"])
	assert.Empty(t, listing["posts"])

	w = doJSON(t, r, http.MethodGet, "/blog?sort=latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode(t, w)["posts"].([]any)
	require.Len(t, posts, 2)
	assert.Equal(t, "b2", posts[0].(map[string]any)["_id"])
}

func TestContact(t *testing.T) {
	r, f := newStore(t)
	form := map[string]any{"name": "Hina", "email": "hina@example.com", "subject": "Order", "message": "Where is it?"}

	w := doJSON(t, r, http.MethodPost, "/contact", form)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["sent"])
	assert.Equal(t, "", out["form"].(map[string]any)["name"])

	f.contactStatus.Store(http.StatusInternalServerError)
	w = doJSON(t, r, http.MethodPost, "/contact", form)
	require.Equal(t, http.StatusBadGateway, w.Code)
	out = decode(t, w)
	assert.Equal(t, false, out["sent"])
	assert.Equal(t, "Mail server unavailable", out["notification"].(map[string]any)["message"])
	assert.Equal(t, "Hina", out["form"].(map[string]any)["name"])

	w = doJSON(t, r, http.MethodPost, "/contact", map[string]any{"name": "Hina", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/contact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["mapEmbedUrl"], "12+Mall+Road")
}

func TestCart_Flow(t *testing.T) {
	r, f := newStore(t)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := sessionCookie(t, w)
	assert.Equal(t, true, decode(t, w)["empty"])

	w = doJSON(t, r, http.MethodPost, "/cart/checkout", nil, session)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/items", map[string]any{"kind": "product", "id": "p1", "quantity": 2}, session)
	require.Equal(t, http.StatusOK, w.Code)
	totals := decode(t, w)["totals"].(map[string]any)
	assert.EqualValues(t, 2000, totals["subtotal"])
	assert.EqualValues(t, 2200, totals["total"])

	w = doJSON(t, r, http.MethodPatch, "/cart/items/product/p1", map[string]any{"quantity": 10}, session)
	require.Equal(t, http.StatusOK, w.Code)
	line := decode(t, w)["lines"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 3, line["quantity"])

	w = doJSON(t, r, http.MethodPost, "/cart/items", map[string]any{"kind": "product", "id": "p2"}, session)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/checkout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cart.CheckoutPath, decode(t, w)["redirect"])

	// stock sells out after the item was added
	f.stock.Store(0)
	w = doJSON(t, r, http.MethodPost, "/cart/checkout", nil, session)
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, cart.ErrCheckoutBlocked.Error(), body["error"])
	assert.Equal(t, true, body["cart"].(map[string]any)["blocked"])

	w = doJSON(t, r, http.MethodDelete, "/cart/items/product/p1", nil, session)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodGet, "/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["empty"])
}

func TestCart_CheckoutSeesSellOutThroughResponseCache(t *testing.T) {
	f := &fakeBackend{}
	f.stock.Store(3)
	f.contactStatus.Store(http.StatusOK)
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	responses := cache.New(2*time.Minute, 0)
	t.Cleanup(responses.Close)
	r := setupRouterWith(t, backend.New(srv.URL, time.Second, responses, zap.NewNop()), nil)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	session := sessionCookie(t, w)
	w = doJSON(t, r, http.MethodPost, "/cart/items", map[string]any{"kind": "product", "id": "p1", "quantity": 2}, session)
	require.Equal(t, http.StatusOK, w.Code)

	f.stock.Store(0)
	w = doJSON(t, r, http.MethodPost, "/cart/checkout", nil, session)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, decode(t, w)["cart"].(map[string]any)["blocked"])
}

func TestCORS(t *testing.T) {
	api := backend.New("", time.Second, nil, zap.NewNop())
	preflight := func(r *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight(setupRouterWith(t, api, []string{"*"}), "https://anywhere.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	r := setupRouterWith(t, api, []string{"https://shop.example"})
	w = preflight(r, "https://shop.example")
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight(r, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCart_DetailsAndBadInput(t *testing.T) {
	r, _ := newStore(t)

	w := doJSON(t, r, http.MethodGet, "/cart/items/deal/d1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode(t, w)
	assert.Equal(t, "Glow Kit", d["name"])
	assert.EqualValues(t, 1400, d["price"])

	w = doJSON(t, r, http.MethodGet, "/cart/items/deal/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/cart/items/bundle/p1", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/items", map[string]any{"kind": "product"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_KeepsValidSessionCookie(t *testing.T) {
	r, _ := newStore(t)
	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	session := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodGet, "/cart", nil, session)
	assert.Empty(t, w.Result().Cookies())

	w = doJSON(t, r, http.MethodGet, "/cart", nil, &http.Cookie{Name: "cart_session", Value: "forged"})
	assert.NotEqual(t, "forged", sessionCookie(t, w).Value)
}

func TestBackendNotConfigured(t *testing.T) {
	r := setupRouter(t, "")
	for _, path := range []string{"/blog", "/contact", "/team", "/testimonials", "/cart"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := doJSON(t, r, http.MethodGet, "/about", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode(t, w)["business"].(map[string]any)["error"])
}
