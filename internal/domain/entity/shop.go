package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shop is a merchant paired one-to-one with a Shop-role Account.
// Name and IsActive are kept in sync with the owning account; Email is
// copied at creation only.
type Shop struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	City          string
	State         string
	ZipCode       string
	Balance       decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	AccountID     *int64

	// AccountEmail is read from the linked account, empty when unlinked.
	AccountEmail string
}

// ShopPatch carries a sparse update; nil fields are left untouched.
type ShopPatch struct {
	Name          *string
	Phone         *string
	Address       *string
	ContactPerson *string
	City          *string
	State         *string
	ZipCode       *string
	Balance       *decimal.Decimal
	IsActive      *bool
}

// SyncsAccount reports whether applying the patch touches the linked account.
func (p ShopPatch) SyncsAccount() bool {
	return p.Name != nil || p.IsActive != nil
}
