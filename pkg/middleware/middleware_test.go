package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
	"go.uber.org/mock/gomock"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func viewerClaims() *domain.Claims {
	return &domain.Claims{
		RoleID:           domain.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ana"},
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		setup      func(m *mocks.MockAuthenticator)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rota pública não exige token",
			path:       "/healthcheck",
			wantStatus: http.StatusOK,
		},
		{
			name:       "sem cabeçalho",
			path:       "/v1/ads/overview",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "sem prefixo Bearer",
			path:       "/v1/ads/overview",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:   "token expirado",
			path:   "/v1/ads/overview",
			header: "Bearer expirado",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("expirado").
					Return(nil, authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrExpiredToken,
		},
		{
			name:   "token válido",
			path:   "/v1/ads/overview",
			header: "Bearer bom",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("bom").Return(viewerClaims(), nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			if tt.setup != nil {
				tt.setup(auth)
			}

			var gotClaims *domain.Claims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotClaims, _ = ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(auth)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
			if tt.header == "Bearer bom" {
				require.NotNil(t, gotClaims)
				assert.Equal(t, "ana", gotClaims.Subject)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	withClaims := func(claims *domain.Claims) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/cron/refresh/run", nil)
		if claims == nil {
			return req
		}
		return req.WithContext(contextWithClaims(req, claims))
	}

	admin := viewerClaims()
	admin.RoleID = domain.RoleAdmin

	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		req        *http.Request
		wantStatus int
	}{
		{"admin em rota de admin", AdminOnly(), withClaims(admin), http.StatusOK},
		{"viewer em rota de admin", AdminOnly(), withClaims(viewerClaims()), http.StatusForbidden},
		{"viewer em rota comum", AllRoles(), withClaims(viewerClaims()), http.StatusOK},
		{"sem autenticação", AllRoles(), withClaims(nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.middleware(okHandler).ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000", " https://painel.exemplo.com "})(okHandler)

	t.Run("origem liberada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/ads/overview", nil)
		req.Header.Set("Origin", "https://painel.exemplo.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://painel.exemplo.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/ads/overview", nil)
		req.Header.Set("Origin", "https://outro.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("preflight responde sem chamar o handler", func(t *testing.T) {
		called := false
		h := Cors([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

		req := httptest.NewRequest(http.MethodOptions, "/v1/ads/export", nil)
		req.Header.Set("Origin", "https://qualquer.com")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://qualquer.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggingMiddleware_CorrelationHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)

	LoggingMiddleware(0)(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(CorrelationHeader))
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ads/overview", nil)

	assert.NotPanics(t, func() {
		LogPanicMiddleware()(panicking).ServeHTTP(rec, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}

func TestLogPanicMiddleware_DevolveIDDeCorrelacao(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ads/overview", nil)

	LoggingMiddleware(0)(LogPanicMiddleware()(panicking)).ServeHTTP(rec, req)

	correlationID := rec.Header().Get(CorrelationHeader)
	require.NotEmpty(t, correlationID)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"correlation_id":"`+correlationID+`"`)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics("test")
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	MetricsMiddleware(m)(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/ads/today", nil))
	MetricsMiddleware(m)(notFound).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/qualquer/coisa", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/v1/ads/today", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))

	assert.NotPanics(t, func() {
		MetricsMiddleware(nil)(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
