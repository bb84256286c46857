package handlers_test

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

type productBody struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	SKU      string          `json:"sku"`
	Image    string          `json:"image"`
	IsActive bool            `json:"is_active"`
}

func productPath(id int64, suffix string) string {
	return "/api/products/" + strconv.FormatInt(id, 10) + suffix
}

func createProduct(t *testing.T, s *server, admin, name, category, sku string) productBody {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/products", admin, map[string]any{
		"name": name, "category": category, "price": "4.50", "stock": 10, "sku": sku,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[productBody](t, env.Data)
}

func TestProducts_CatalogReads(t *testing.T) {
	s, admin := adminServer(t)
	createProduct(t, s, admin, "Kaju Katli", "Sweets", "SW-002")
	createProduct(t, s, admin, "Gulab Jamun", "Sweets", "SW-001")
	samosa := createProduct(t, s, admin, "Samosa", "Snacks", "SN-001")

	s.addAccount(t, "user@pos.com", "User123!", entity.RoleUser, true)
	user := s.login(t, "user@pos.com", "User123!")

	w, env := s.do(t, http.MethodGet, "/api/products", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]productBody](t, env.Data)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Samosa", "Gulab Jamun", "Kaju Katli"}, []string{all[0].Name, all[1].Name, all[2].Name})

	_, env = s.do(t, http.MethodGet, "/api/products/categories", user, nil)
	assert.Equal(t, []string{"Snacks", "Sweets"}, decode[[]string](t, env.Data))

	_, env = s.do(t, http.MethodGet, "/api/products/category/Sweets", user, nil)
	assert.Len(t, decode[[]productBody](t, env.Data), 2)

	w, env = s.do(t, http.MethodGet, "/api/products/sku/SN-001", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, samosa.ID, decode[productBody](t, env.Data).ID)

	w, env = s.do(t, http.MethodGet, productPath(samosa.ID, ""), user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decimal.RequireFromString("4.5").Equal(decode[productBody](t, env.Data).Price))

	w, _ = s.do(t, http.MethodGet, "/api/products/sku/NOPE", user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/products", user, map[string]any{"name": "x", "sku": "X-1", "price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProducts_CreateValidation(t *testing.T) {
	s, admin := adminServer(t)
	createProduct(t, s, admin, "Barfi", "Sweets", "SW-003")

	w, env := s.do(t, http.MethodPost, "/api/products", admin, map[string]any{"name": "Again", "sku": "SW-003", "price": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "sku already in use", env.Message)

	w, env = s.do(t, http.MethodPost, "/api/products", admin, map[string]any{"name": "Neg", "sku": "N-1", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "price")

	w, env = s.do(t, http.MethodPost, "/api/products", admin, map[string]any{"name": "Neg", "sku": "N-2", "price": 1, "stock": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "stock")
}

func TestProducts_UpdateAndDelete(t *testing.T) {
	s, admin := adminServer(t)
	p := createProduct(t, s, admin, "Barfi", "Sweets", "SW-003")

	w, env := s.do(t, http.MethodPut, productPath(p.ID, ""), admin, map[string]any{"price": "6.25", "stock": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[productBody](t, env.Data)
	assert.True(t, decimal.RequireFromString("6.25").Equal(got.Price))
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, "Barfi", got.Name)

	w, _ = s.do(t, http.MethodPut, productPath(p.ID, ""), admin, map[string]any{"stock": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodDelete, productPath(p.ID, ""), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = s.do(t, http.MethodGet, "/api/products", admin, nil)
	assert.Empty(t, decode[[]productBody](t, env.Data))

	w, env = s.do(t, http.MethodGet, productPath(p.ID, ""), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[productBody](t, env.Data).IsActive)

	w, _ = s.do(t, http.MethodDelete, productPath(999, ""), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts_Search(t *testing.T) {
	s, admin := adminServer(t)
	p := createProduct(t, s, admin, "Rasgulla", "Sweets", "SW-004")

	w, env := s.do(t, http.MethodGet, "/api/products/search?q=Rasgulla", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]productBody](t, env.Data)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	w, _ = s.do(t, http.MethodGet, "/api/products/search", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_UploadImage(t *testing.T) {
	s, admin := adminServer(t)
	p := createProduct(t, s, admin, "Barfi", "Sweets", "SW-003")

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	req := multipartImage(t, productPath(p.ID, "/image"), png)
	req.Header.Set("Authorization", "Bearer "+admin)
	w, env := s.serve(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[productBody](t, env.Data)
	require.Len(t, s.images.uploaded, 1)
	assert.True(t, strings.HasPrefix(s.images.uploaded[0], "products/"+strconv.FormatInt(p.ID, 10)+"/"))
	assert.True(t, strings.HasSuffix(s.images.uploaded[0], ".png"))
	assert.Equal(t, "https://cdn.test/"+s.images.uploaded[0], got.Image)

	req = multipartImage(t, productPath(p.ID, "/image"), []byte("just some text, not a picture"))
	req.Header.Set("Authorization", "Bearer "+admin)
	w, _ = s.serve(t, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	req = multipartImage(t, productPath(404, "/image"), png)
	req.Header.Set("Authorization", "Bearer "+admin)
	w, _ = s.serve(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
