package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/soapshop/internal/auth"
	"github.com/abgdnv/soapshop/internal/carousel"
	"github.com/abgdnv/soapshop/internal/cart"
	"github.com/abgdnv/soapshop/internal/media"
	"github.com/abgdnv/soapshop/internal/service"
	"github.com/abgdnv/soapshop/internal/store"
	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	router   *chi.Mux
	repo     *store.MemoryStore
	carousel *carousel.Carousel
	mediaDir string
}

func newTestServer(t *testing.T, repo store.ProductStore) *testServer {
	t.Helper()
	mem, _ := repo.(*store.MemoryStore)
	mediaCfg := config.MediaConfig{Dir: filepath.Join(t.TempDir(), "soaps"), URLPrefix: "/soaps", MaxFileBytes: 1 << 20}
	authenticator, err := auth.NewAuthenticator(config.AdminConfig{
		Password:    "admin123",
		TokenSecret: strings.Repeat("k", 32),
		Issuer:      "storefront",
		TokenTTL:    time.Hour,
	})
	require.NoError(t, err)
	c := carousel.New(0, carousel.WithResumeDelay(time.Hour))
	t.Cleanup(c.Stop)

	h := NewHandler(Dependencies{
		Products:           service.NewService(repo, media.NewStore(mediaCfg), nil, discardLogger),
		Carts:              cart.NewMemoryStore(time.Hour),
		Admin:              authenticator,
		Carousel:           c,
		FeaturedCollection: "winter",
		Session:            config.SessionConfig{CookieName: "cart_session", TTL: time.Hour},
		Media:              mediaCfg,
	}, discardLogger)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return &testServer{router: r, repo: mem, carousel: c, mediaDir: mediaCfg.Dir}
}

func (s *testServer) seed(t *testing.T, products ...store.ProductInput) []string {
	t.Helper()
	ids := make([]string, 0, len(products))
	for _, p := range products {
		created, err := s.repo.Create(context.Background(), p)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	return ids
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func product(name, category, price string) store.ProductInput {
	return store.ProductInput{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Stock:       5,
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type viewResponse struct {
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
	Bounds     struct {
		Min string `json:"min"`
		Max string `json:"max"`
	} `json:"bounds"`
	Controls struct {
		Min string `json:"min"`
		Max string `json:"max"`
	} `json:"controls"`
	Criteria struct {
		Category string `json:"category"`
		MinPrice string `json:"minPrice"`
		MaxPrice string `json:"maxPrice"`
		SortBy   string `json:"sortBy"`
	} `json:"criteria"`
	Products []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	} `json:"products"`
}

func Test_Handler_ListProducts(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	srv.seed(t,
		product("Rose", "Floral", "7.99"),
		product("Mint", "Herbal", "6.49"),
		product("Jasmine", "Floral", "5.99"),
	)

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedNames  []string
		expectedSort   string
	}{
		{name: "defaults", query: "", expectedStatus: http.StatusOK, expectedNames: []string{"Jasmine", "Mint", "Rose"}, expectedSort: "newest"},
		{name: "category and price sort", query: "?category=Floral&sortBy=priceLowHigh", expectedStatus: http.StatusOK, expectedNames: []string{"Jasmine", "Rose"}, expectedSort: "priceLowHigh"},
		{name: "price range", query: "?minPrice=6&maxPrice=7&sortBy=nameAZ", expectedStatus: http.StatusOK, expectedNames: []string{"Mint"}, expectedSort: "nameAZ"},
		{name: "unknown sort falls back to newest", query: "?sortBy=random", expectedStatus: http.StatusOK, expectedNames: []string{"Jasmine", "Mint", "Rose"}, expectedSort: "newest"},
		{name: "invalid price", query: "?minPrice=abc", expectedStatus: http.StatusBadRequest},
		{name: "min above every price", query: "?minPrice=1000", expectedStatus: http.StatusOK, expectedNames: []string{}, expectedSort: "newest"},
		{name: "max below every price", query: "?maxPrice=1", expectedStatus: http.StatusOK, expectedNames: []string{}, expectedSort: "newest"},
		{name: "range above every price", query: "?minPrice=50&maxPrice=60", expectedStatus: http.StatusOK, expectedNames: []string{}, expectedSort: "newest"},
		{name: "min above max", query: "?minPrice=7&maxPrice=6", expectedStatus: http.StatusOK, expectedNames: []string{}, expectedSort: "newest"},
		{name: "negative max", query: "?maxPrice=-1", expectedStatus: http.StatusOK, expectedNames: []string{}, expectedSort: "newest"},
		{name: "bound equal to a price", query: "?minPrice=7.99", expectedStatus: http.StatusOK, expectedNames: []string{"Rose"}, expectedSort: "newest"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil)
			// when
			rr := srv.do(req)
			// then
			require.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())
			if tc.expectedStatus != http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"error"`)
				return
			}
			view := decode[viewResponse](t, rr)
			names := make([]string, 0, len(view.Products))
			for _, p := range view.Products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.expectedNames, names)
			assert.Equal(t, len(tc.expectedNames), view.Count)
			assert.Equal(t, tc.expectedSort, view.Criteria.SortBy)
			assert.Equal(t, []string{"All", "Floral", "Herbal"}, view.Categories)
			assert.Equal(t, "5", view.Bounds.Min)
			assert.Equal(t, "8", view.Bounds.Max)
		})
	}
}

func Test_Handler_ListProducts_OutOfRangeKeepsRequestedFilters(t *testing.T) {
	// given
	srv := newTestServer(t, store.NewMemoryStore())
	srv.seed(t,
		product("Rose", "Floral", "8.00"),
		product("Mint", "Herbal", "6.00"),
	)
	// when
	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/products?minPrice=1000", nil))
	// then
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	view := decode[viewResponse](t, rr)
	assert.Equal(t, 0, view.Count)
	assert.Empty(t, view.Products)
	assert.Equal(t, "1000", view.Criteria.MinPrice)
	assert.Equal(t, "8", view.Criteria.MaxPrice)
	assert.Equal(t, "8", view.Controls.Min, "slider clamped into bounds")
	assert.Equal(t, "8", view.Controls.Max)
}

func Test_Handler_ListProducts_PricesHaveTwoDecimals(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	srv.seed(t, product("Rose", "Floral", "8"))

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	view := decode[viewResponse](t, rr)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "8.00", view.Products[0].Price)
}
}

func Test_Handler_FindByID(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	ids := srv.seed(t, product("Rose", "Floral", "7.99"))

	t.Run("found", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+ids[0], nil))
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[map[string]any](t, rr)
		assert.Equal(t, "Rose", body["name"])
		assert.Equal(t, "Rose description", body["longDescription"])
	})
	t.Run("not found", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/404", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Product with ID 404 not found"}`, rr.Body.String())
	})
}

func Test_Handler_Collection(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	srv.seed(t, product("Rose", "Floral", "7.99"), product("Mint", "Herbal", "6.49"), product("Gold", "Luxury", "12.99"))

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/collections/winter", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.EqualValues(t, 2, body["count"])

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/collections/summer", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type cartBody struct {
	Items []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Price    string `json:"price"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Summary struct {
		Subtotal  string `json:"subtotal"`
		Tax       string `json:"tax"`
		Total     string `json:"total"`
		ItemCount int    `json:"itemCount"`
	} `json:"summary"`
}

func Test_Handler_CartFlow(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	ids := srv.seed(t,
		product("Rose", "Floral", "7.99"),
		product("Gold", "Luxury", "9.99"),
	)

	// first access issues a session cookie
	rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", jsonBody(t, AddItemDto{ID: ids[0]})))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	session := cookieNamed(rr, "cart_session")
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	// repeated add merges into one line
	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", jsonBody(t, AddItemDto{ID: ids[0], Quantity: 1})), session)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, cookieNamed(rr, "cart_session"), "existing session must be reused")
	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", jsonBody(t, AddItemDto{ID: ids[1]})), session)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[cartBody](t, rr)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "Rose", body.Items[0].Name)
	assert.Equal(t, 2, body.Items[0].Quantity)
	assert.Equal(t, "25.97", body.Summary.Subtotal)
	assert.Equal(t, "2.60", body.Summary.Tax)
	assert.Equal(t, "28.57", body.Summary.Total)
	assert.Equal(t, 3, body.Summary.ItemCount)

	// price changes in the catalogue do not reprice the cart
	_, err := srv.repo.Update(context.Background(), ids[0], product("Rose", "Floral", "1.00"))
	require.NoError(t, err)
	rr = srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), session)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "25.97", decode[cartBody](t, rr).Summary.Subtotal)

	// quantity zero removes
	rr = srv.do(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+ids[0], strings.NewReader(`{"quantity":0}`)), session)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode[cartBody](t, rr)
	require.Len(t, body.Items, 1)
	assert.Equal(t, ids[1], body.Items[0].ID)

	// updating an absent item
	rr = srv.do(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+ids[0], strings.NewReader(`{"quantity":3}`)), session)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// removing an absent item is fine
	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+ids[0], nil), session)
	assert.Equal(t, http.StatusOK, rr.Code)

	// clear
	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), session)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode[cartBody](t, rr)
	assert.Empty(t, body.Items)
	assert.Equal(t, "0.00", body.Summary.Total)
}

func Test_Handler_AddItemErrors(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	ids := srv.seed(t, product("Rose", "Floral", "7.99"))

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "unknown product", body: `{"id":"999"}`, expectedStatus: http.StatusNotFound},
		{name: "malformed json", body: `{"id":`, expectedStatus: http.StatusBadRequest, expectedBody: `{"error":"Invalid request body"}`},
		{name: "unknown field", body: `{"id":"` + ids[0] + `","price":"0.01"}`, expectedStatus: http.StatusBadRequest},
		{name: "missing id", body: `{"quantity":1}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"validation_errors":{"ID":"failed on rule: required"}}`},
		{name: "negative quantity", body: `{"id":"` + ids[0] + `","quantity":-2}`, expectedStatus: http.StatusBadRequest, expectedBody: `{"validation_errors":{"Quantity":"failed on rule: gte"}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(tc.body)))
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func Test_Handler_Featured(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	srv.seed(t,
		product("Rose", "Floral", "7.99"),
		product("Mint", "Herbal", "6.49"),
		product("Gold", "Luxury", "12.99"),
	)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/featured", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[FeaturedResponse](t, rr)
	assert.Equal(t, 2, first.State.Size)
	assert.Equal(t, 0, first.State.Index)
	assert.True(t, first.State.Playing)
	require.NotNil(t, first.Product)
	assert.Equal(t, "Gold", first.Product.Name)

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/next", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	next := decode[FeaturedResponse](t, rr)
	assert.Equal(t, 1, next.State.Index)
	assert.False(t, next.State.Playing)
	assert.Equal(t, "Mint", next.Product.Name)

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/next", nil))
	assert.Equal(t, 0, decode[FeaturedResponse](t, rr).State.Index, "wraps around")

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/prev", nil))
	assert.Equal(t, 1, decode[FeaturedResponse](t, rr).State.Index)

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/goto/0", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[FeaturedResponse](t, rr).State.Index)

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/goto/5", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/goto/-1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func Test_Handler_FeaturedEmpty(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/featured/next", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[FeaturedResponse](t, rr)
	assert.Nil(t, body.Product)
	assert.Equal(t, 0, body.State.Size)
}

func login(t *testing.T, srv *testServer) *http.Cookie {
	t.Helper()
	rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"password":"admin123"}`)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	c := cookieNamed(rr, AdminCookieName)
	require.NotNil(t, c)
	return c
}

func Test_Handler_AdminAuth(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	t.Run("wrong password", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"password":"nope"}`)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, cookieNamed(rr, AdminCookieName))
	})
	t.Run("missing password", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("no cookie", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
	t.Run("forged cookie", func(t *testing.T) {
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/session", nil), &http.Cookie{Name: AdminCookieName, Value: "true"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
	t.Run("login and logout", func(t *testing.T) {
		c := login(t, srv)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 3600, c.MaxAge)

		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/session", nil), c)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/logout", nil), c)
		require.Equal(t, http.StatusOK, rr.Code)
		cleared := cookieNamed(rr, AdminCookieName)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)
	})
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func multipartForm(t *testing.T, fields map[string]string, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func Test_Handler_AdminProducts(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	admin := login(t, srv)
	fields := map[string]string{
		"name":        "Gold & Honey Soap",
		"description": "Luxurious",
		"price":       "12.99",
		"category":    "Luxury",
		"stock":       "4",
		"ingredients": "honey, gold flakes",
	}

	// create with image
	body, contentType := multipartForm(t, fields, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", body)
	req.Header.Set("Content-Type", contentType)
	rr := srv.do(req, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]any](t, rr)
	assert.Equal(t, "/soaps/gold-and-honey-soap.png", created["image"])
	assert.Equal(t, []any{"honey", "gold flakes"}, created["ingredients"])
	id := created["id"].(string)

	// the image is served
	rr = srv.do(httptest.NewRequest(http.MethodGet, "/soaps/gold-and-honey-soap.png", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// listing with stats
	rr = srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil), admin)
	require.Equal(t, http.StatusOK, rr.Code)
	listing := decode[service.AdminListing](t, rr)
	assert.Equal(t, 1, listing.Stats.Total)
	assert.Equal(t, map[string]int{"Luxury": 1}, listing.Stats.Categories)

	// update without image keeps it
	fields["price"] = "13.49"
	body, contentType = multipartForm(t, fields, nil)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/"+id, body)
	req.Header.Set("Content-Type", contentType)
	rr = srv.do(req, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[map[string]any](t, rr)
	assert.Equal(t, "13.49", updated["price"])
	assert.Equal(t, "/soaps/gold-and-honey-soap.png", updated["image"])

	// delete removes the image
	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+id, nil), admin)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = srv.do(httptest.NewRequest(http.MethodGet, "/soaps/gold-and-honey-soap.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+id, nil), admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func Test_Handler_AdminProductFormErrors(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	admin := login(t, srv)
	valid := func() map[string]string {
		return map[string]string{"name": "Rose", "description": "Soft", "price": "7.99", "category": "Floral"}
	}

	testCases := []struct {
		name           string
		mutate         func(map[string]string)
		image          []byte
		expectedStatus int
		expectedBody   string
	}{
		{name: "bad price", mutate: func(f map[string]string) { f["price"] = "cheap" }, expectedStatus: http.StatusBadRequest, expectedBody: `{"validation_errors":{"Price":"failed on rule: decimal"}}`},
		{name: "zero price", mutate: func(f map[string]string) { f["price"] = "0" }, expectedStatus: http.StatusBadRequest, expectedBody: `{"validation_errors":{"Price":"failed on rule: gt"}}`},
		{name: "missing name", mutate: func(f map[string]string) { delete(f, "name") }, expectedStatus: http.StatusBadRequest, expectedBody: `{"validation_errors":{"Name":"failed on rule: required"}}`},
		{name: "bad stock", mutate: func(f map[string]string) { f["stock"] = "many" }, expectedStatus: http.StatusBadRequest},
		{name: "not an image", mutate: func(map[string]string) {}, image: []byte("plain text, not a picture"), expectedStatus: http.StatusUnsupportedMediaType},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields := valid()
			tc.mutate(fields)
			body, contentType := multipartForm(t, fields, tc.image)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", body)
			req.Header.Set("Content-Type", contentType)

			rr := srv.do(req, admin)

			assert.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

// brokenStore fails pings and listings.
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func (brokenStore) FindAll(context.Context) ([]store.Product, error) {
	return nil, errors.New("connection refused")
}

func Test_Handler_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t, store.NewMemoryStore())
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"healthy","message":"Database connection successful"}`, rr.Body.String())
	})
	t.Run("unhealthy", func(t *testing.T) {
		srv := newTestServer(t, brokenStore{store.NewMemoryStore()})
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), `"unhealthy"`)
	})
	t.Run("catalogue degrades to empty", func(t *testing.T) {
		srv := newTestServer(t, brokenStore{store.NewMemoryStore()})
		rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		view := decode[viewResponse](t, rr)
		assert.Equal(t, 0, view.Count)
		assert.Equal(t, "0", view.Bounds.Min)
		assert.Equal(t, "100", view.Bounds.Max)
	})
}
