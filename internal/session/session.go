package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrEnded        = errors.New("session ended")
)

// Store persists the single active session of the register.
type Store interface {
	LoadSession(ctx context.Context) (*storage.Session, error)
	SaveSession(ctx context.Context, sess storage.Session) error
	ClearSession(ctx context.Context) error
}

// Claims carry the salesperson identity. There is no PIN or password: starting
// a session only selects who is selling.
type Claims struct {
	UserID     string    `json:"userId"`
	LoggedInAt time.Time `json:"loggedInAt"`
	jwt.RegisteredClaims
}

type Service struct {
	ws     *shop.Workspace
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(ws *shop.Workspace, store Store, secret string, ttl time.Duration) *Service {
	return &Service{
		ws:     ws,
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start records userID as the active salesperson and returns a signed token
// for it. Any previous session is replaced.
func (s *Service) Start(ctx context.Context, userID string) (string, shop.User, error) {
	var user shop.User

	err := s.ws.View(func(db *shop.DB) error {
		var err error
		user, err = db.User(userID)

		return err
	})
	if err != nil {
		return "", shop.User{}, err
	}

	now := s.now().UTC().Truncate(time.Second)

	if err := s.store.SaveSession(ctx, storage.Session{UserID: user.ID, LoggedInAt: now}); err != nil {
		return "", shop.User{}, fmt.Errorf("saving session: %w", err)
	}

	claims := Claims{
		UserID:     user.ID,
		LoggedInAt: now,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", shop.User{}, fmt.Errorf("signing token: %w", err)
	}

	return token, user, nil
}

// Current returns the persisted session, or nil when nobody is logged in.
func (s *Service) Current(ctx context.Context) (*storage.Session, error) {
	return s.store.LoadSession(ctx)
}

func (s *Service) End(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// Verify checks the token signature and expiry, and that it belongs to the
// session that is still active.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sess, err := s.store.LoadSession(ctx)
	if err != nil {
		return nil, err
	}

	if sess == nil || sess.UserID != claims.UserID || !sess.LoggedInAt.Equal(claims.LoggedInAt) {
		return nil, ErrEnded
	}

	return claims, nil
}
