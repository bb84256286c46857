package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

type accountSeed struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
	Active   bool
	At       time.Time
}

type shopSeed struct {
	Account       accountSeed
	Phone         string
	Address       string
	ContactPerson string
	City          string
	State         string
	ZipCode       string
	Balance       decimal.Decimal
}

type productSeed struct {
	Name        string
	Category    string
	Price       string
	Stock       int
	SKU         string
	Description string
	Image       string
}

func day(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

var accounts = []accountSeed{
	{"Admin User", "admin@pos.com", "Admin123!", entity.RoleAdmin, true, day(1)},
	{"CXP Admin", "admin@cxp.com", "Admin123!", entity.RoleAdmin, true, day(1)},
	{"John Doe", "john.doe@example.com", "user123", entity.RoleUser, true, day(3)},
	{"Jane Smith", "jane.smith@example.com", "user123", entity.RoleUser, true, day(3)},
	{"Test User", "test@test.com", "test123", entity.RoleUser, true, day(3)},
	{"Inactive User", "inactive@example.com", "inactive123", entity.RoleUser, false, day(4)},
}

var shops = []shopSeed{
	{
		Account:       accountSeed{"Downtown Mithai Shop", "downtown@mithai.com", "shop123", entity.RoleShop, true, day(2)},
		Phone:         "+1-555-0101",
		Address:       "12 Main Street",
		ContactPerson: "Ravi Kumar",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62701",
		Balance:       decimal.RequireFromString("2500.00"),
	},
	{
		Account:       accountSeed{"Mall Mithai Shop", "mall@mithai.com", "shop123", entity.RoleShop, true, day(2)},
		Phone:         "+1-555-0102",
		Address:       "400 Grand Mall, Unit 18",
		ContactPerson: "Anita Sharma",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62704",
		Balance:       decimal.RequireFromString("1800.50"),
	},
	{
		Account:       accountSeed{"Suburb Mithai Shop", "suburb@mithai.com", "shop123", entity.RoleShop, true, day(2)},
		Phone:         "+1-555-0103",
		Address:       "77 Oak Avenue",
		ContactPerson: "Vikram Patel",
		City:          "Chatham",
		State:         "IL",
		ZipCode:       "62629",
		Balance:       decimal.Zero,
	},
}

var products = []productSeed{
	{"Gulab Jamun", "Sweets", "4.50", 120, "SW-001", "Fried milk dumplings in rose syrup", "🍮"},
	{"Kaju Katli", "Sweets", "9.00", 80, "SW-002", "Cashew fudge with silver leaf", "🔷"},
	{"Rasgulla", "Sweets", "4.00", 100, "SW-003", "Soft cheese balls in light syrup", "⚪"},
	{"Jalebi", "Sweets", "3.50", 150, "SW-004", "Crisp saffron spirals", "🌀"},
	{"Samosa", "Snacks", "1.50", 200, "SN-001", "Spiced potato pastry", "🥟"},
	{"Namak Pare", "Snacks", "2.75", 90, "SN-002", "Salted crackers", "🥨"},
	{"Masala Chai", "Beverages", "2.00", 300, "BV-001", "Spiced milk tea", "🍵"},
	{"Mango Lassi", "Beverages", "3.25", 60, "BV-002", "Yogurt and mango smoothie", "🥭"},
}
