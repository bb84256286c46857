package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
)

// DenialReason explains a refused login. The zero value means granted.
type DenialReason string

const (
	DenialNone               DenialReason = ""
	DenialInvalidCredentials DenialReason = "invalid_credentials"
	DenialAccountInactive    DenialReason = "account_inactive"
)

// Message is the caller-facing text for the denial.
func (r DenialReason) Message() string {
	switch r {
	case DenialNone:
		return "Login successful"
	case DenialAccountInactive:
		return "Account is inactive. Please contact administrator."
	default:
		return "Invalid email or password"
	}
}

// Identity is the authenticated principal.
type Identity struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

// LoginResult carries the outcome of Verify. Token is set only when Granted.
type LoginResult struct {
	Granted   bool
	Reason    DenialReason
	Identity  *Identity
	Token     string
	ExpiresAt time.Time
}

// SessionStore keeps the live session of each account.
// Get returns nil, nil when the account has no session.
type SessionStore interface {
	Save(ctx context.Context, s entity.Session, ttl time.Duration) error
	Get(ctx context.Context, accountID int64) (*entity.Session, error)
	Delete(ctx context.Context, accountID int64) error
}

type AuthService struct {
	Store    repo.Store
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Logger   logrus.FieldLogger
	Cost     int
}

func NewAuthService(store repo.Store, jwt *helpers.JWTManager, sessions SessionStore, logger logrus.FieldLogger, cost int) *AuthService {
	return &AuthService{Store: store, JWT: jwt, Sessions: sessions, Logger: logger, Cost: cost}
}

// HashPassword hashes plain with the configured work factor.
func (s *AuthService) HashPassword(plain string) (string, error) {
	return helpers.HashPassword(plain, s.Cost)
}

// check runs the lookup, active gate and hash comparison shared by Verify and IsValid.
func (s *AuthService) check(ctx context.Context, email, password string) (*entity.Account, DenialReason, error) {
	a, err := s.Store.Accounts().GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, DenialInvalidCredentials, nil
	}
	if err != nil {
		return nil, DenialNone, persistence(err)
	}
	if !a.IsActive {
		return a, DenialAccountInactive, nil
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return a, DenialInvalidCredentials, nil
	}
	return a, DenialNone, nil
}

// Verify authenticates the credentials and, on success, opens a session.
// Denials are reported in the result; the error is reserved for store failures.
func (s *AuthService) Verify(ctx context.Context, email, password string) (LoginResult, error) {
	a, reason, err := s.check(ctx, email, password)
	if err != nil {
		s.Logger.WithError(err).WithField("email", email).Error("login lookup failed")
		return LoginResult{}, err
	}
	if reason != DenialNone {
		loginMetrics.Add(string(reason), 1)
		s.Logger.WithFields(logrus.Fields{"email": email, "outcome": string(reason)}).Info("login denied")
		return LoginResult{Reason: reason}, nil
	}

	token, sid, exp, err := s.JWT.Generate(a.ID, a.Email, a.Role.String())
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate session token failed")
		return LoginResult{}, err
	}
	sess := entity.Session{ID: sid, AccountID: a.ID, Email: a.Email, Role: a.Role, CreatedAt: time.Now().UTC()}
	if err := s.Sessions.Save(ctx, sess, s.JWT.TTL); err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("register session failed")
		return LoginResult{}, persistence(err)
	}

	loginMetrics.Add("granted", 1)
	s.Logger.WithFields(logrus.Fields{"email": email, "account_id": a.ID, "outcome": "granted"}).Info("login granted")
	return LoginResult{
		Granted:   true,
		Identity:  &Identity{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role},
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

// IsValid applies the same checks as Verify without opening a session.
func (s *AuthService) IsValid(ctx context.Context, email, password string) (bool, error) {
	_, reason, err := s.check(ctx, email, password)
	if err != nil {
		return false, err
	}
	return reason == DenialNone, nil
}

// Authorize resolves a session token to its identity. The token must be
// correctly signed, unexpired and still the account's registered session.
func (s *AuthService) Authorize(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrUnauthorized
	}
	sess, err := s.Sessions.Get(ctx, claims.AccountID)
	if err != nil {
		return nil, persistence(err)
	}
	if sess == nil || sess.ID != claims.SessionID() {
		return nil, ErrUnauthorized
	}
	return &Identity{ID: claims.AccountID, Email: claims.Email, Role: role}, nil
}

// Logout revokes the account's session. Revoking a missing session is not an error.
func (s *AuthService) Logout(ctx context.Context, accountID int64) error {
	if err := s.Sessions.Delete(ctx, accountID); err != nil {
		return persistence(err)
	}
	return nil
}
