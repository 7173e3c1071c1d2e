package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
)

var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestService() *Service {
	cfg := &config.Config{
		SecretKey: "segredo-de-teste",
		Auth: config.Auth{
			TokenTTL: 24 * time.Hour,
			Issuer:   "ad-review-dashboard",
		},
	}
	return &Service{cfg: cfg, now: func() time.Time { return fixedNow }}
}

func TestService_IssueAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueToken("  ana  ", domain.RoleViewer, 0)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "ana", claims.Subject)
	assert.Equal(t, domain.RoleViewer, claims.RoleID)
	assert.Equal(t, "ad-review-dashboard", claims.Issuer)
	assert.Len(t, claims.ID, 6)
	assert.Equal(t, fixedNow.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestService_IssueTokenErrors(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name    string
		user    string
		roleID  int
		wantErr error
		code    string
	}{
		{"nome vazio", "   ", domain.RoleAdmin, ErrMissingSubject, apiErrors.ErrMissingRequiredData},
		{"perfil desconhecido", "ana", 3, ErrInvalidRole, apiErrors.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IssueToken(tt.user, tt.roleID, time.Hour)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.code, authErr.Code)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	svc := newTestService()

	t.Run("token expirado", func(t *testing.T) {
		token, err := svc.IssueToken("ana", domain.RoleAdmin, time.Hour)
		require.NoError(t, err)

		svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
		defer func() { svc.now = func() time.Time { return fixedNow } }()

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("assinado com outra chave", func(t *testing.T) {
		other := newTestService()
		other.cfg.SecretKey = "outra-chave"

		token, err := other.IssueToken("ana", domain.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("emissor diferente", func(t *testing.T) {
		other := newTestService()
		other.cfg.Auth.Issuer = "outro-sistema"

		token, err := other.IssueToken("ana", domain.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("algoritmo none", func(t *testing.T) {
		claims := domain.Claims{
			RoleID: domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "ana",
				Issuer:    "ad-review-dashboard",
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("perfil desconhecido no token", func(t *testing.T) {
		claims := domain.Claims{
			RoleID: 9,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "ana",
				Issuer:    "ad-review-dashboard",
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-de-teste"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("texto qualquer", func(t *testing.T) {
		_, err := svc.ValidateToken("nao-e-um-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.True(t, IsAuthorizationError(err))
	})
}
