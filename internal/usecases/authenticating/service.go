package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
	"github.com/vfg2006/ad-review-dashboard/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

// Authenticator emite e valida os tokens dos operadores do painel.
// Não há cadastro de usuários: tokens são emitidos pela CLI com a chave compartilhada.
type Authenticator interface {
	IssueToken(name string, roleID int, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	cfg *config.Config
	now func() time.Time
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{
		cfg: cfg,
		now: time.Now,
	}
}

// IssueToken gera um token HS256. ttl zero usa AUTH_TOKEN_TTL.
func (s *Service) IssueToken(name string, roleID int, ttl time.Duration) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewAuthError(ErrMissingSubject, apiErrors.ErrMissingRequiredData, "")
	}

	if !domain.ValidRole(roleID) {
		return "", NewAuthError(ErrInvalidRole, apiErrors.ErrInvalidFormat, fmt.Sprintf("role_id=%d", roleID))
	}

	if ttl <= 0 {
		ttl = s.cfg.Auth.TokenTTL
	}

	tokenID, err := utils.GenerateID()
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar identificador do token")
	}

	now := s.now()
	claims := domain.Claims{
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   name,
			Issuer:    s.cfg.Auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	options := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.cfg.Auth.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.cfg.Auth.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	if !domain.ValidRole(claims.RoleID) {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "perfil desconhecido")
	}

	return claims, nil
}
