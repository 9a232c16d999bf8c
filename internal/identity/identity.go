// Package identity owns accounts and the session record, and derives the
// acting identity (signed-in account or ephemeral guest) for each command
// invocation.
//
// Accounts live under a single store key as a JSON array. The session is
// stored as a signed JWT so that a hand-edited session record degrades to a
// guest identity instead of impersonating an account. PINs are stored
// bcrypt-hashed.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

// pinPattern is the signup/login PIN format: exactly six digits.
var pinPattern = regexp.MustCompile(`^\d{6}$`)

// sessionClaims is the JWT payload persisted under the session key.
type sessionClaims struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// Service resolves identities and manages accounts and the session.
type Service struct {
	store     store.Store
	secret    []byte
	guestName string
	nowFn     func() time.Time
}

// NewService returns a Service bound to the given store. secret signs the
// session token. A fresh guest name is generated immediately so that an
// unauthenticated caller has a stable name until logout.
func NewService(s store.Store, secret []byte) *Service {
	return &Service{
		store:     s,
		secret:    secret,
		guestName: common.NewGuestName(),
		nowFn:     time.Now,
	}
}

// Resolve derives the acting identity. A valid session yields an "owner"
// identity (meaning: has an account, distinct from room leadership); a
// missing, malformed, or tampered session yields the current guest identity.
func (s *Service) Resolve(ctx context.Context) models.Identity {
	claims, err := s.readSession(ctx)
	if err != nil {
		return models.Identity{DisplayName: s.guestName, Kind: models.IdentityGuest}
	}
	return models.Identity{
		DisplayName: claims.DisplayName,
		Username:    claims.Username,
		Kind:        models.IdentityOwner,
	}
}

// Signup creates an account and signs the caller in. The username must be
// unused (case-sensitive) and the PIN exactly six digits.
func (s *Service) Signup(ctx context.Context, username, pin, displayName string) error {
	if username == "" || displayName == "" {
		return fmt.Errorf("%w: username and display name are required", common.ErrValidation)
	}
	if !pinPattern.MatchString(pin) {
		return fmt.Errorf("%w: PIN must be exactly 6 digits", common.ErrValidation)
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.Username == username {
			return fmt.Errorf("%w: username already exists", common.ErrConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	accounts = append(accounts, models.Account{
		ID:          uuid.NewString(),
		Username:    username,
		PinHash:     string(hash),
		DisplayName: displayName,
		CreatedAt:   s.nowFn(),
	})
	if err := s.saveAccounts(ctx, accounts); err != nil {
		return err
	}
	return s.writeSession(ctx, username, displayName)
}

// Login verifies the username/PIN pair and establishes a session. Wrong
// username and wrong PIN are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, pin string) error {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PinHash), []byte(pin)) != nil {
			return common.ErrCredential
		}
		return s.writeSession(ctx, a.Username, a.DisplayName)
	}
	return common.ErrCredential
}

// Logout clears the session and regenerates the guest name, as the original
// client does, so the next unauthenticated caller is not confused with the
// previous one.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.guestName = common.NewGuestName()
	return nil
}

// SetDisplayName updates the caller's display name. For an authenticated
// identity the account and session are both updated; for a guest only the
// in-memory name changes (an empty name rolls a fresh guest name).
func (s *Service) SetDisplayName(ctx context.Context, name string) error {
	claims, err := s.readSession(ctx)
	if err != nil {
		if name == "" {
			s.guestName = common.NewGuestName()
		} else {
			s.guestName = name
		}
		return nil
	}

	if name == "" {
		return fmt.Errorf("%w: display name is required", common.ErrValidation)
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].Username == claims.Username {
			accounts[i].DisplayName = name
			break
		}
	}
	if err := s.saveAccounts(ctx, accounts); err != nil {
		return err
	}
	return s.writeSession(ctx, claims.Username, name)
}

// FindAccount returns the account with the given username, or ErrNotFound.
func (s *Service) FindAccount(ctx context.Context, username string) (*models.Account, error) {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Username == username {
			return &accounts[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// --- session helpers ---

func (s *Service) readSession(ctx context.Context) (*sessionClaims, error) {
	raw, err := s.store.Get(ctx, store.KeySession)
	if err != nil {
		return nil, err
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrCredential
	}
	return claims, nil
}

func (s *Service) writeSession(ctx context.Context, username, displayName string) error {
	claims := sessionClaims{
		Username:    username,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.nowFn()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}
	if err := s.store.Set(ctx, store.KeySession, []byte(signed)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// --- account helpers ---

func (s *Service) loadAccounts(ctx context.Context) ([]models.Account, error) {
	raw, err := s.store.Get(ctx, store.KeyAccounts)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	var accounts []models.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) saveAccounts(ctx context.Context, accounts []models.Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyAccounts, raw); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}
