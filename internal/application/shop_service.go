package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

// PasswordHasher produces credential hashes for new accounts.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

// SessionRevoker ends the live session of an account.
type SessionRevoker interface {
	Logout(ctx context.Context, accountID int64) error
}

// ShopNotifier is told about committed shop lifecycle events.
// Implementations must not fail the caller.
type ShopNotifier interface {
	ShopProvisioned(ctx context.Context, shop *entity.Shop)
	ShopDeactivated(ctx context.Context, shop *entity.Shop)
}

// CreateShopInput is the profile of a new shop plus its login password.
type CreateShopInput struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	City          string
	State         string
	ZipCode       string
	Balance       decimal.Decimal
	Password      string
}

// ShopService owns the shop/account pair: provisioning, lifecycle sync
// and the balance ledger.
type ShopService struct {
	Store         repo.Store
	Hasher        PasswordHasher
	Sessions      SessionRevoker
	Notifier      ShopNotifier
	Logger        logrus.FieldLogger
	AllowNegative bool
	Clock         func() time.Time
}

func NewShopService(store repo.Store, hasher PasswordHasher, sessions SessionRevoker, notifier ShopNotifier, logger logrus.FieldLogger, allowNegative bool) *ShopService {
	return &ShopService{
		Store:         store,
		Hasher:        hasher,
		Sessions:      sessions,
		Notifier:      notifier,
		Logger:        logger,
		AllowNegative: allowNegative,
		Clock:         time.Now,
	}
}

func (s *ShopService) now() time.Time { return s.Clock().UTC() }

// CreateShop creates the Shop-role account and the shop referencing it in
// one transaction. Either both rows exist afterwards or neither does.
func (s *ShopService) CreateShop(ctx context.Context, in CreateShopInput) (*entity.Shop, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, invalid("email is required")
	}
	if in.Password == "" {
		return nil, invalid("password is required")
	}
	if !s.AllowNegative && in.Balance.IsNegative() {
		return nil, invalid("balance must not be negative")
	}

	hash, err := s.Hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account := &entity.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleShop,
		IsActive:     true,
		CreatedAt:    now,
	}
	shop := &entity.Shop{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		ContactPerson: in.ContactPerson,
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		Balance:       in.Balance,
		IsActive:      true,
		CreatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}
		accountID := account.ID
		shop.AccountID = &accountID
		return tx.Shops().Create(ctx, shop)
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			s.Logger.WithError(err).WithField("email", in.Email).Info("shop email already in use")
			return nil, ErrDuplicateEmail
		}
		s.Logger.WithError(err).WithField("email", in.Email).Error("create shop failed")
		return nil, persistence(err)
	}
	shop.AccountEmail = account.Email

	shopMetrics.Add("provisioned", 1)
	s.Logger.WithFields(logrus.Fields{"shop_id": shop.ID, "account_id": account.ID}).Info("shop provisioned")
	s.Notifier.ShopProvisioned(ctx, shop)
	return shop, nil
}

// UpdateShop applies a sparse patch. Name and IsActive are written to the
// linked account as well. Returns nil, nil when the shop does not exist.
func (s *ShopService) UpdateShop(ctx context.Context, id int64, patch entity.ShopPatch) (*entity.Shop, error) {
	if patch.Balance != nil && !s.AllowNegative && patch.Balance.IsNegative() {
		return nil, invalid("balance must not be negative")
	}

	var (
		updated    *entity.Shop
		wasActive  bool
		deactivate bool
	)
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repo.Store) error {
		shop, err := tx.Shops().LockByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		wasActive = shop.IsActive
		now := s.now()

		applyShopPatch(shop, patch)
		shop.UpdatedAt = &now

		if patch.SyncsAccount() {
			if err := s.syncAccount(ctx, tx, shop, patch, now); err != nil {
				return err
			}
		}
		if err := tx.Shops().Update(ctx, shop); err != nil {
			return err
		}
		updated = shop
		deactivate = wasActive && !shop.IsActive
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).WithField("shop_id", id).Error("update shop failed")
		return nil, persistence(err)
	}
	if updated == nil {
		return nil, nil
	}

	shopMetrics.Add("updated", 1)
	if deactivate {
		s.afterDeactivation(ctx, updated)
	}
	return updated, nil
}

func applyShopPatch(shop *entity.Shop, p entity.ShopPatch) {
	if p.Name != nil {
		shop.Name = *p.Name
	}
	if p.Phone != nil {
		shop.Phone = *p.Phone
	}
	if p.Address != nil {
		shop.Address = *p.Address
	}
	if p.ContactPerson != nil {
		shop.ContactPerson = *p.ContactPerson
	}
	if p.City != nil {
		shop.City = *p.City
	}
	if p.State != nil {
		shop.State = *p.State
	}
	if p.ZipCode != nil {
		shop.ZipCode = *p.ZipCode
	}
	if p.Balance != nil {
		shop.Balance = *p.Balance
	}
	if p.IsActive != nil {
		shop.IsActive = *p.IsActive
	}
}

// syncAccount copies the synchronized fields onto the shop's account.
// It runs after the shop row lock so both paths lock shop before account.
func (s *ShopService) syncAccount(ctx context.Context, tx repo.Store, shop *entity.Shop, p entity.ShopPatch, now time.Time) error {
	if shop.AccountID == nil {
		s.Logger.WithField("shop_id", shop.ID).Warn("shop has no linked account")
		return nil
	}
	account, err := tx.Accounts().LockByID(ctx, *shop.AccountID)
	if err != nil {
		return err
	}
	if p.Name != nil {
		account.Name = *p.Name
	}
	if p.IsActive != nil {
		account.IsActive = *p.IsActive
	}
	account.UpdatedAt = &now
	return tx.Accounts().Update(ctx, account)
}

// DeleteShop deactivates the shop and its account together. The rows are
// kept. Returns false when the shop does not exist.
func (s *ShopService) DeleteShop(ctx context.Context, id int64) (bool, error) {
	inactive := false
	var (
		deleted   *entity.Shop
		wasActive bool
	)
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repo.Store) error {
		shop, err := tx.Shops().LockByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		wasActive = shop.IsActive
		now := s.now()

		shop.IsActive = false
		shop.UpdatedAt = &now
		if err := s.syncAccount(ctx, tx, shop, entity.ShopPatch{IsActive: &inactive}, now); err != nil {
			return err
		}
		if err := tx.Shops().Update(ctx, shop); err != nil {
			return err
		}
		deleted = shop
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).WithField("shop_id", id).Error("delete shop failed")
		return false, persistence(err)
	}
	if deleted == nil {
		return false, nil
	}

	shopMetrics.Add("deleted", 1)
	if wasActive {
		s.afterDeactivation(ctx, deleted)
	} else if deleted.AccountID != nil {
		s.revoke(ctx, *deleted.AccountID)
	}
	return true, nil
}

func (s *ShopService) afterDeactivation(ctx context.Context, shop *entity.Shop) {
	shopMetrics.Add("deactivated", 1)
	if shop.AccountID != nil {
		s.revoke(ctx, *shop.AccountID)
	}
	s.Notifier.ShopDeactivated(ctx, shop)
}

func (s *ShopService) revoke(ctx context.Context, accountID int64) {
	if err := s.Sessions.Logout(ctx, accountID); err != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("revoke session failed")
	}
}

// AdjustBalance adds delta (possibly negative) to the shop balance in one
// atomic statement. Returns false when the shop does not exist.
func (s *ShopService) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (bool, error) {
	balance, err := s.Store.Shops().AddBalance(ctx, id, delta, s.AllowNegative, s.now())
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	case errors.Is(err, repo.ErrInsufficientBalance):
		shopMetrics.Add("balance_rejected", 1)
		return false, ErrInsufficientBalance
	case err != nil:
		s.Logger.WithError(err).WithField("shop_id", id).Error("adjust balance failed")
		return false, persistence(err)
	}

	shopMetrics.Add("balance_adjusted", 1)
	s.Logger.WithFields(logrus.Fields{
		"shop_id": id,
		"delta":   delta.String(),
		"balance": balance.String(),
	}).Debug("balance adjusted")
	return true, nil
}

// GetShop returns the shop by id, including inactive ones, or nil when absent.
func (s *ShopService) GetShop(ctx context.Context, id int64) (*entity.Shop, error) {
	return s.lookup(s.Store.Shops().GetByID(ctx, id))
}

func (s *ShopService) GetShopByEmail(ctx context.Context, email string) (*entity.Shop, error) {
	return s.lookup(s.Store.Shops().GetByEmail(ctx, email))
}

func (s *ShopService) GetShopByAccountID(ctx context.Context, accountID int64) (*entity.Shop, error) {
	return s.lookup(s.Store.Shops().GetByAccountID(ctx, accountID))
}

// ListShops returns active shops ordered by name.
func (s *ShopService) ListShops(ctx context.Context) ([]entity.Shop, error) {
	shops, err := s.Store.Shops().ListActive(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return shops, nil
}

func (s *ShopService) lookup(shop *entity.Shop, err error) (*entity.Shop, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence(err)
	}
	return shop, nil
}
