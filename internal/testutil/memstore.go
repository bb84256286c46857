// Package testutil provides in-memory doubles for service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

type memData struct {
	accounts map[int64]entity.Account
	shops    map[int64]entity.Shop
	products map[int64]entity.Product
	seq      int64
}

func (d *memData) clone() *memData {
	c := &memData{
		accounts: make(map[int64]entity.Account, len(d.accounts)),
		shops:    make(map[int64]entity.Shop, len(d.shops)),
		products: make(map[int64]entity.Product, len(d.products)),
		seq:      d.seq,
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.shops {
		c.shops[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	return c
}

// MemStore is an in-memory repository.Store. Transactions run one at a
// time against a private copy that replaces the committed data on success.
// Operations outside a transaction are serialized with transactions.
type MemStore struct {
	root *memRoot
	data *memData
	inTx bool
}

type memRoot struct {
	mu    sync.Mutex
	data  *memData
	fails map[string]error
}

var _ repo.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	root := &memRoot{
		data:  &memData{accounts: map[int64]entity.Account{}, shops: map[int64]entity.Shop{}, products: map[int64]entity.Product{}},
		fails: map[string]error{},
	}
	return &MemStore{root: root}
}

// FailOn makes every later call of op return err. Ops are named
// "<table>.<method>", e.g. "shops.create" or "accounts.update".
func (m *MemStore) FailOn(op string, err error) {
	m.root.mu.Lock()
	defer m.root.mu.Unlock()
	m.root.fails[op] = err
}

func (m *MemStore) Accounts() repo.AccountRepository { return memAccounts{m} }
func (m *MemStore) Shops() repo.ShopRepository       { return memShops{m} }
func (m *MemStore) Products() repo.ProductRepository { return memProducts{m} }

func (m *MemStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) (err error) {
	if m.inTx {
		return fn(ctx, m)
	}
	m.root.mu.Lock()
	defer m.root.mu.Unlock()

	tx := &MemStore{root: m.root, data: m.root.data.clone(), inTx: true}
	defer func() {
		if p := recover(); p != nil {
			panic(p)
		}
		if err == nil {
			m.root.data = tx.data
		}
	}()
	return fn(ctx, tx)
}

// do runs fn against the data visible to m.
func (m *MemStore) do(op string, fn func(d *memData) error) error {
	if !m.inTx {
		m.root.mu.Lock()
		defer m.root.mu.Unlock()
	}
	if err := m.root.fails[op]; err != nil {
		return err
	}
	d := m.data
	if !m.inTx {
		d = m.root.data
	}
	return fn(d)
}

// Snapshot helpers for assertions.

func (m *MemStore) AccountCount() int {
	n := 0
	_ = m.do("", func(d *memData) error { n = len(d.accounts); return nil })
	return n
}

func (m *MemStore) ShopCount() int {
	n := 0
	_ = m.do("", func(d *memData) error { n = len(d.shops); return nil })
	return n
}

func dup(constraint string) error {
	return fmt.Errorf("%w: %s", repo.ErrDuplicate, constraint)
}

type memAccounts struct{ m *MemStore }

func (r memAccounts) Create(_ context.Context, a *entity.Account) error {
	return r.m.do("accounts.create", func(d *memData) error {
		for _, x := range d.accounts {
			if x.Email == a.Email {
				return dup("accounts_email_key")
			}
		}
		d.seq++
		a.ID = d.seq
		d.accounts[a.ID] = *a
		return nil
	})
}

func (r memAccounts) get(op string, match func(entity.Account) bool) (*entity.Account, error) {
	var out *entity.Account
	err := r.m.do(op, func(d *memData) error {
		for _, x := range d.accounts {
			if match(x) {
				cp := x
				out = &cp
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r memAccounts) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	return r.get("accounts.get", func(a entity.Account) bool { return a.ID == id })
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.get("accounts.get", func(a entity.Account) bool { return a.Email == email })
}

func (r memAccounts) LockByID(_ context.Context, id int64) (*entity.Account, error) {
	return r.get("accounts.lock", func(a entity.Account) bool { return a.ID == id })
}

func (r memAccounts) Update(_ context.Context, a *entity.Account) error {
	return r.m.do("accounts.update", func(d *memData) error {
		if _, ok := d.accounts[a.ID]; !ok {
			return repo.ErrNotFound
		}
		d.accounts[a.ID] = *a
		return nil
	})
}

func (r memAccounts) Count(_ context.Context) (int64, error) {
	var n int64
	err := r.m.do("accounts.count", func(d *memData) error { n = int64(len(d.accounts)); return nil })
	return n, err
}

type memShops struct{ m *MemStore }

func withAccountEmail(d *memData, s entity.Shop) entity.Shop {
	s.AccountEmail = ""
	if s.AccountID != nil {
		if a, ok := d.accounts[*s.AccountID]; ok {
			s.AccountEmail = a.Email
		}
	}
	return s
}

func (r memShops) Create(_ context.Context, s *entity.Shop) error {
	return r.m.do("shops.create", func(d *memData) error {
		for _, x := range d.shops {
			if x.Email == s.Email {
				return dup("shops_email_key")
			}
			if s.AccountID != nil && x.AccountID != nil && *x.AccountID == *s.AccountID {
				return dup("shops_account_id_key")
			}
		}
		d.seq++
		s.ID = d.seq
		d.shops[s.ID] = *s
		return nil
	})
}

func (r memShops) get(op string, match func(entity.Shop) bool) (*entity.Shop, error) {
	var out *entity.Shop
	err := r.m.do(op, func(d *memData) error {
		for _, x := range d.shops {
			if match(x) {
				cp := withAccountEmail(d, x)
				out = &cp
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r memShops) GetByID(_ context.Context, id int64) (*entity.Shop, error) {
	return r.get("shops.get", func(s entity.Shop) bool { return s.ID == id })
}

func (r memShops) GetByEmail(_ context.Context, email string) (*entity.Shop, error) {
	return r.get("shops.get", func(s entity.Shop) bool { return s.Email == email })
}

func (r memShops) GetByAccountID(_ context.Context, accountID int64) (*entity.Shop, error) {
	return r.get("shops.get", func(s entity.Shop) bool { return s.AccountID != nil && *s.AccountID == accountID })
}

func (r memShops) LockByID(_ context.Context, id int64) (*entity.Shop, error) {
	return r.get("shops.lock", func(s entity.Shop) bool { return s.ID == id })
}

func (r memShops) ListActive(_ context.Context) ([]entity.Shop, error) {
	out := make([]entity.Shop, 0)
	err := r.m.do("shops.list", func(d *memData) error {
		for _, x := range d.shops {
			if x.IsActive {
				out = append(out, withAccountEmail(d, x))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r memShops) Update(_ context.Context, s *entity.Shop) error {
	return r.m.do("shops.update", func(d *memData) error {
		cur, ok := d.shops[s.ID]
		if !ok {
			return repo.ErrNotFound
		}
		next := *s
		next.Email = cur.Email
		next.AccountID = cur.AccountID
		next.AccountEmail = ""
		d.shops[s.ID] = next
		return nil
	})
}

func (r memShops) AddBalance(_ context.Context, id int64, delta decimal.Decimal, allowNegative bool, at time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.m.do("shops.add_balance", func(d *memData) error {
		s, ok := d.shops[id]
		if !ok {
			return repo.ErrNotFound
		}
		next := s.Balance.Add(delta)
		if !allowNegative && next.IsNegative() {
			return repo.ErrInsufficientBalance
		}
		s.Balance = next
		s.UpdatedAt = &at
		d.shops[id] = s
		balance = next
		return nil
	})
	return balance, err
}

type memProducts struct{ m *MemStore }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	return r.m.do("products.create", func(d *memData) error {
		for _, x := range d.products {
			if x.SKU == p.SKU {
				return dup("products_sku_key")
			}
		}
		d.seq++
		p.ID = d.seq
		d.products[p.ID] = *p
		return nil
	})
}

func (r memProducts) get(op string, match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.m.do(op, func(d *memData) error {
		for _, x := range d.products {
			if match(x) {
				cp := x
				out = &cp
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return r.get("products.get", func(p entity.Product) bool { return p.ID == id })
}

func (r memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.get("products.get", func(p entity.Product) bool { return p.SKU == sku })
}

func (r memProducts) list(op string, match func(entity.Product) bool) ([]entity.Product, error) {
	out := make([]entity.Product, 0)
	err := r.m.do(op, func(d *memData) error {
		for _, x := range d.products {
			if x.IsActive && match(x) {
				out = append(out, x)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r memProducts) ListActive(_ context.Context) ([]entity.Product, error) {
	return r.list("products.list", func(entity.Product) bool { return true })
}

func (r memProducts) ListActiveByCategory(_ context.Context, category string) ([]entity.Product, error) {
	return r.list("products.list", func(p entity.Product) bool { return p.Category == category })
}

func (r memProducts) Categories(ctx context.Context) ([]string, error) {
	items, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range items {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	return r.m.do("products.update", func(d *memData) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return repo.ErrNotFound
		}
		next := *p
		next.SKU = cur.SKU
		d.products[p.ID] = next
		return nil
	})
}
