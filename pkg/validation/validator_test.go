package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopForm struct {
	Name     string           `json:"name" validate:"required"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,pwd"`
	Phone    string           `json:"phone" validate:"omitempty,phone"`
	Role     string           `json:"role" validate:"omitempty,oneof=Admin Shop User"`
	Price    decimal.Decimal  `json:"price" validate:"gte=0"`
	Balance  *decimal.Decimal `json:"balance" validate:"omitempty,gte=-1000"`
	Stock    int              `json:"stock" validate:"min=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetails_FieldMessages(t *testing.T) {
	v := newValidator()
	neg := decimal.RequireFromString("-5000")

	err := v.Struct(shopForm{
		Email:    "nope",
		Password: "abc",
		Role:     "Root",
		Price:    decimal.RequireFromString("-0.01"),
		Balance:  &neg,
		Stock:    -1,
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "must be one of: Admin, Shop, User", details["role"])
	assert.Equal(t, "must be greater than or equal to 0", details["price"])
	assert.Equal(t, "must be greater than or equal to -1000", details["balance"])
	assert.Equal(t, "must be at least 0", details["stock"])
}

func TestToDetails_Valid(t *testing.T) {
	v := newValidator()

	err := v.Struct(shopForm{
		Name:     "Downtown",
		Email:    "d@x.com",
		Password: "shop123",
		Price:    decimal.RequireFromString("12.50"),
	})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(err))
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)

	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetails_Fallback(t *testing.T) {
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
