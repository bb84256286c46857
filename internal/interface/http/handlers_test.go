package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	handlers "github.com/oksasatya/go-pos-backoffice/internal/interface/http"
	"github.com/oksasatya/go-pos-backoffice/internal/router"
	"github.com/oksasatya/go-pos-backoffice/internal/router/modules"
	"github.com/oksasatya/go-pos-backoffice/internal/testutil"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
	"github.com/oksasatya/go-pos-backoffice/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[int64]string
}

func (f *fakeIndex) Index(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = p.Name
	return nil
}

// Search matches names exactly.
func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id, name := range f.indexed {
		if name == q {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeImages struct{ uploaded []string }

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.uploaded = append(f.uploaded, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type server struct {
	engine   *gin.Engine
	store    *testutil.MemStore
	sessions *testutil.MemSessions
	auth     *application.AuthService
	shops    *application.ShopService
	images   *fakeImages
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := testutil.NewMemStore()
	sessions := testutil.NewMemSessions()
	logger, _ := testutil.Logger()

	auth := application.NewAuthService(store, helpers.NewJWTManager("handler-secret", time.Hour), sessions, logger, bcrypt.MinCost)
	shops := application.NewShopService(store, auth, auth, application.NopNotifier{}, logger, true)
	images := &fakeImages{}
	products := application.NewProductService(store, &fakeIndex{indexed: map[int64]string{}}, images, logger)

	reg := router.NewRegistry(gin.New())
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(auth, logger, "localhost", false), auth, nil))
	reg.Add(modules.NewShopModule(handlers.NewShopHandler(shops, logger), auth, nil))
	reg.Add(modules.NewProductModule(handlers.NewProductHandler(products, logger), auth, nil))
	reg.RegisterAll()

	return &server{engine: reg.Engine, store: store, sessions: sessions, auth: auth, shops: shops, images: images}
}

func (s *server) addAccount(t *testing.T, email, password string, role entity.Role, active bool) *entity.Account {
	t.Helper()
	hash, err := s.auth.HashPassword(password)
	require.NoError(t, err)
	a := &entity.Account{Name: email, Email: email, PasswordHash: hash, Role: role, IsActive: active, CreatedAt: time.Now()}
	require.NoError(t, s.store.Accounts().Create(context.Background(), a))
	return a
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

func (s *server) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func multipartImage(t *testing.T, path string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "barfi.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
