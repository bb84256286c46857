package application_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/testutil"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
)

type notifierMock struct{ mock.Mock }

func (m *notifierMock) ShopProvisioned(ctx context.Context, shop *entity.Shop) {
	m.Called(ctx, shop)
}

func (m *notifierMock) ShopDeactivated(ctx context.Context, shop *entity.Shop) {
	m.Called(ctx, shop)
}

type fixture struct {
	store    *testutil.MemStore
	sessions *testutil.MemSessions
	auth     *application.AuthService
	shops    *application.ShopService
	notifier *notifierMock
	hook     *logtest.Hook
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// tickingClock advances one second per call.
func tickingClock() func() time.Time {
	var n atomic.Int64
	return func() time.Time { return baseTime.Add(time.Duration(n.Add(1)) * time.Second) }
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	sessions := testutil.NewMemSessions()
	logger, hook := testutil.Logger()

	auth := application.NewAuthService(store, helpers.NewJWTManager("test-secret", time.Hour), sessions, logger, bcrypt.MinCost)

	n := &notifierMock{}
	n.On("ShopProvisioned", mock.Anything, mock.Anything).Maybe()
	n.On("ShopDeactivated", mock.Anything, mock.Anything).Maybe()

	shops := application.NewShopService(store, auth, auth, n, logger, true)
	shops.Clock = tickingClock()

	return &fixture{store: store, sessions: sessions, auth: auth, shops: shops, notifier: n, hook: hook}
}

// addAccount stores an account directly, the way the seeder does.
func (f *fixture) addAccount(t *testing.T, email, password string, role entity.Role, active bool) *entity.Account {
	t.Helper()
	hash, err := f.auth.HashPassword(password)
	require.NoError(t, err)
	a := &entity.Account{Name: email, Email: email, PasswordHash: hash, Role: role, IsActive: active, CreatedAt: baseTime}
	require.NoError(t, f.store.Accounts().Create(context.Background(), a))
	return a
}

func (f *fixture) createShop(t *testing.T, name, email, password string) *entity.Shop {
	t.Helper()
	shop, err := f.shops.CreateShop(context.Background(), application.CreateShopInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return shop
}

func ptr[T any](v T) *T { return &v }
