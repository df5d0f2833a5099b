package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthenticator(t *testing.T, cfg config.AdminConfig) *Authenticator {
	t.Helper()
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = testSecret
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "storefront"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	a, err := NewAuthenticator(cfg)
	require.NoError(t, err)
	return a
}

func Test_Authenticator_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		cfg         config.AdminConfig
		password    string
		expectError error
	}{
		{name: "plain password matches", cfg: config.AdminConfig{Password: "admin123"}, password: "admin123"},
		{name: "plain password mismatch", cfg: config.AdminConfig{Password: "admin123"}, password: "admin", expectError: ErrInvalidPassword},
		{name: "hash matches", cfg: config.AdminConfig{PasswordHash: string(hash)}, password: "s3cret"},
		{name: "hash mismatch", cfg: config.AdminConfig{PasswordHash: string(hash)}, password: "admin123", expectError: ErrInvalidPassword},
		{name: "empty password", cfg: config.AdminConfig{Password: "admin123"}, password: "", expectError: ErrInvalidPassword},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			a := newTestAuthenticator(t, tc.cfg)
			// when
			token, err := a.Login(tc.password)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, a.Verify(token))
		})
	}
}

func Test_NewAuthenticator_RejectsMalformedHash(t *testing.T) {
	_, err := NewAuthenticator(config.AdminConfig{PasswordHash: "not-a-bcrypt-hash", TokenSecret: testSecret})
	assert.Error(t, err)
}

func Test_Authenticator_Verify(t *testing.T) {
	// given
	a := newTestAuthenticator(t, config.AdminConfig{Password: "admin123", TokenTTL: time.Hour})
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }
	token, err := a.Issue()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, a.Verify(token))
	})
	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, a.Verify(""), ErrInvalidToken)
	})
	t.Run("garbage", func(t *testing.T) {
		assert.ErrorIs(t, a.Verify("abc.def.ghi"), ErrInvalidToken)
	})
	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
		assert.ErrorIs(t, a.Verify(tampered), ErrInvalidToken)
	})
	t.Run("other secret", func(t *testing.T) {
		other := newTestAuthenticator(t, config.AdminConfig{Password: "admin123", TokenSecret: strings.Repeat("x", 32)})
		other.now = a.now
		assert.ErrorIs(t, other.Verify(token), ErrInvalidToken)
	})
	t.Run("other issuer", func(t *testing.T) {
		other := newTestAuthenticator(t, config.AdminConfig{Password: "admin123", Issuer: "someone-else"})
		other.now = a.now
		assert.ErrorIs(t, other.Verify(token), ErrInvalidToken)
	})
	t.Run("expired", func(t *testing.T) {
		later := now.Add(2 * time.Hour)
		a.now = func() time.Time { return later }
		defer func() { a.now = func() time.Time { return now } }()
		assert.ErrorIs(t, a.Verify(token), ErrInvalidToken)
	})
}
