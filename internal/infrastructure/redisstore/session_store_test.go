//go:build integration

package redisstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/infrastructure/redisstore"
)

var addr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	addr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newStore(t *testing.T) (*redisstore.SessionStore, *redis.Client) {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})
	return redisstore.NewSessionStore(rdb), rdb
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, rdb := newStore(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, entity.Session{
		ID: "sid-1", AccountID: 42, Email: "a@b.test", Role: entity.RoleShop, CreatedAt: at,
	}, time.Hour))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sid-1", got.ID)
	assert.Equal(t, entity.RoleShop, got.Role)
	assert.True(t, at.Equal(got.CreatedAt))

	ttl, err := rdb.TTL(ctx, "account:session:42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestSessionStore_LatestLoginWins(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.Save(ctx, entity.Session{ID: "old", AccountID: 1, Role: entity.RoleUser}, time.Hour))
	require.NoError(t, s.Save(ctx, entity.Session{ID: "new", AccountID: 1, Role: entity.RoleUser}, time.Hour))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestSessionStore_MissingAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	got, err := s.Get(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Save(ctx, entity.Session{ID: "x", AccountID: 99, Role: entity.RoleAdmin}, time.Hour))
	require.NoError(t, s.Delete(ctx, 99))

	got, err = s.Get(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}
