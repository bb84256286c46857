package application_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/testutil"
)

type indexerMock struct{ mock.Mock }

func (m *indexerMock) Index(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *indexerMock) Search(ctx context.Context, q string, size int) ([]int64, error) {
	args := m.Called(ctx, q, size)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type imagesMock struct{ mock.Mock }

func (m *imagesMock) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, objectPath, contentType, r)
	return args.String(0), args.Error(1)
}

func newProductService(t *testing.T) (*application.ProductService, *indexerMock, *imagesMock) {
	t.Helper()
	logger, _ := testutil.Logger()
	idx := &indexerMock{}
	idx.On("Index", mock.Anything, mock.Anything).Return(nil).Maybe()
	img := &imagesMock{}
	svc := application.NewProductService(testutil.NewMemStore(), idx, img, logger)
	svc.Clock = tickingClock()
	return svc, idx, img
}

func mustCreate(t *testing.T, svc *application.ProductService, name, category, sku, price string) *entity.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), application.CreateProductInput{
		Name: name, Category: category, SKU: sku, Price: decimal.RequireFromString(price), Stock: 10,
	})
	require.NoError(t, err)
	return p
}

func TestProducts_ListingAndCategories(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Rasgulla", "Sweets", "SW-002", "3.50")
	mustCreate(t, svc, "Gulab Jamun", "Sweets", "SW-001", "4.00")
	mustCreate(t, svc, "Samosa", "Snacks", "SN-001", "1.25")
	gone := mustCreate(t, svc, "Old Stock", "Discontinued", "OLD-1", "1")
	_, err := svc.DeleteProduct(ctx, gone.ID)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range all {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Samosa", "Gulab Jamun", "Rasgulla"}, names)

	sweets, err := svc.ListByCategory(ctx, "Sweets")
	require.NoError(t, err)
	assert.Len(t, sweets, 2)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Snacks", "Sweets"}, cats)

	none, err := svc.ListByCategory(ctx, "Drinks")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProducts_CreateValidationAndDuplicates(t *testing.T) {
	svc, idx, _ := newProductService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, "Barfi", "Sweets", "SW-010", "2")
	assert.True(t, p.IsActive)
	idx.AssertCalled(t, "Index", mock.Anything, mock.MatchedBy(func(x *entity.Product) bool { return x.ID == p.ID }))

	_, err := svc.CreateProduct(ctx, application.CreateProductInput{Name: "Copy", SKU: "SW-010"})
	assert.ErrorIs(t, err, application.ErrDuplicateSKU)

	for name, in := range map[string]application.CreateProductInput{
		"no name":        {SKU: "A"},
		"no sku":         {Name: "A"},
		"negative price": {Name: "A", SKU: "A", Price: decimal.NewFromInt(-1)},
		"negative stock": {Name: "A", SKU: "A", Stock: -1},
	} {
		_, err := svc.CreateProduct(ctx, in)
		assert.ErrorIs(t, err, application.ErrValidation, name)
	}
}

func TestProducts_LookupsAndPartialUpdate(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, "Ladoo", "Sweets", "SW-020", "1.75")

	bySKU, err := svc.GetProductBySKU(ctx, "SW-020")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	missing, err := svc.GetProduct(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := svc.UpdateProduct(ctx, p.ID, entity.ProductPatch{Price: ptr(decimal.RequireFromString("2.25")), Stock: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, "2.25", updated.Price.String())
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, "Ladoo", updated.Name)
	assert.Equal(t, "SW-020", updated.SKU)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = svc.UpdateProduct(ctx, p.ID, entity.ProductPatch{Stock: ptr(-3)})
	assert.ErrorIs(t, err, application.ErrValidation)

	none, err := svc.UpdateProduct(ctx, 999, entity.ProductPatch{Name: ptr("x")})
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestProducts_DeleteIsSoft(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, "Jalebi", "Sweets", "SW-030", "1")

	ok, err := svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	ok, err = svc.DeleteProduct(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProducts_SearchKeepsIndexOrderAndSkipsInactive(t *testing.T) {
	svc, idx, _ := newProductService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, "Kaju Katli", "Sweets", "SW-040", "5")
	b := mustCreate(t, svc, "Kaju Roll", "Sweets", "SW-041", "6")
	c := mustCreate(t, svc, "Kaju Old", "Sweets", "SW-042", "6")
	_, err := svc.DeleteProduct(ctx, c.ID)
	require.NoError(t, err)

	idx.On("Search", mock.Anything, "kaju", 10).Return([]int64{b.ID, c.ID, 777, a.ID}, nil)

	found, err := svc.SearchProducts(ctx, "kaju", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, b.ID, found[0].ID)
	assert.Equal(t, a.ID, found[1].ID)

	empty, err := svc.SearchProducts(ctx, "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProducts_SearchFailure(t *testing.T) {
	svc, idx, _ := newProductService(t)
	idx.On("Search", mock.Anything, "x", 5).Return(nil, errors.New("es unavailable"))

	_, err := svc.SearchProducts(context.Background(), "x", 5)
	assert.Error(t, err)
}

func TestProducts_IndexFailureDoesNotFailWrite(t *testing.T) {
	logger, hook := testutil.Logger()
	idx := &indexerMock{}
	idx.On("Index", mock.Anything, mock.Anything).Return(errors.New("es down"))
	svc := application.NewProductService(testutil.NewMemStore(), idx, nil, logger)

	p, err := svc.CreateProduct(context.Background(), application.CreateProductInput{Name: "Peda", SKU: "SW-050"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "product index failed", hook.LastEntry().Message)
}

func TestProducts_UploadImage(t *testing.T) {
	svc, _, img := newProductService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, "Halwa", "Sweets", "SW-060", "3")

	var objectPath string
	img.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).Run(func(args mock.Arguments) {
		objectPath = args.String(1)
	}).Return("https://storage.googleapis.com/bucket/obj.png", nil)

	updated, err := svc.UploadImage(ctx, p.ID, strings.NewReader("png"), "Halwa.PNG", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/bucket/obj.png", updated.Image)
	assert.True(t, strings.HasPrefix(objectPath, "products/"))
	assert.True(t, strings.HasSuffix(objectPath, ".png"))

	none, err := svc.UploadImage(ctx, 999, strings.NewReader("png"), "x.png", "image/png")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestProducts_UploadImageDisabled(t *testing.T) {
	logger, _ := testutil.Logger()
	svc := application.NewProductService(testutil.NewMemStore(), nil, nil, logger)

	_, err := svc.UploadImage(context.Background(), 1, strings.NewReader(""), "a.png", "image/png")
	assert.ErrorIs(t, err, application.ErrImageStoreDisabled)

	found, err := svc.SearchProducts(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, found)
}
