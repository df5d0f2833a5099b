// Package auth guards the admin area: it checks the admin password and
// issues and verifies the signed session token stored in the admin cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

const adminSubject = "admin"

type Verifier interface {
	Verify(token string) error
}

// Authenticator checks admin credentials and manages admin tokens.
type Authenticator struct {
	passwordHash []byte
	secret       []byte
	issuer       string
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthenticator creates an Authenticator from the admin configuration.
// A plain password is hashed once so that both forms are compared the same way.
func NewAuthenticator(cfg config.AdminConfig) (*Authenticator, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &Authenticator{
		passwordHash: hash,
		secret:       []byte(cfg.TokenSecret),
		issuer:       cfg.Issuer,
		ttl:          cfg.TokenTTL,
		now:          time.Now,
	}, nil
}

// TTL is how long an issued token stays valid.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Login checks the password and returns a fresh token.
func (a *Authenticator) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return a.Issue()
}

// Issue signs a new admin token.
func (a *Authenticator) Issue() (string, error) {
	now := a.now()
	tok, err := jwt.NewBuilder().
		Issuer(a.issuer).
		Subject(adminSubject).
		IssuedAt(now).
		Expiration(now.Add(a.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), a.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// Verify checks the signature, issuer, subject and expiry of the token.
func (a *Authenticator) Verify(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	_, err := jwt.Parse(
		[]byte(token),
		jwt.WithKey(jwa.HS256(), a.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(a.issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithClock(jwt.ClockFunc(a.now)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return nil
}
