package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Perfis de acesso ao painel
const (
	RoleAdmin  = 1
	RoleViewer = 2
)

func ValidRole(roleID int) bool {
	return roleID == RoleAdmin || roleID == RoleViewer
}

func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// Claims é o conteúdo do token de um operador do painel. O nome do operador vai em Subject.
type Claims struct {
	RoleID int `json:"role_id"`
	jwt.RegisteredClaims
}
