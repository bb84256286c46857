package templates

import (
	"time"

	"github.com/oksasatya/go-pos-backoffice/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithContactPerson(name string) Option { return func(d *EmailData) { d.ContactPerson = name } }
func WithCity(city string) Option          { return func(d *EmailData) { d.City = city } }
func WithBalance(b string) Option          { return func(d *EmailData) { d.Balance = b } }

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, shopID int64, shopName, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           shopName,
		Email:          recipient,
		RecipientEmail: recipient,
		Type:           typ,

		ShopID:   shopID,
		ShopName: shopName,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		LoginURL:   cfg.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewShopProvisionedData(cfg *config.Config, shopID int64, shopName, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, ShopProvisioned, shopID, shopName, email, opts...))
}

func NewShopDeactivatedData(cfg *config.Config, shopID int64, shopName, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, ShopDeactivated, shopID, shopName, email, opts...))
}
