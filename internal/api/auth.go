package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig 管理员鉴权配置，令牌由外部签发，这里只做校验。
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	AdminRole string `yaml:"admin_role" env:"ADMIN_ROLE"`
}

var errUnauthorized = errors.New("unauthorized")

// RequireAdmin 校验 Bearer HS256 令牌且 role 声明等于管理员角色。
func RequireAdmin(cfg AuthConfig) func(http.Handler) http.Handler {
	role := cfg.AdminRole
	if role == "" {
		role = "admin"
	}
	secret := []byte(cfg.JWTSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := checkAdmin(r, secret, role); err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkAdmin(r *http.Request, secret []byte, role string) error {
	if len(secret) == 0 {
		return errUnauthorized
	}
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return errUnauthorized
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return errUnauthorized
	}
	if got, _ := claims["role"].(string); got != role {
		return errors.New("forbidden")
	}
	return nil
}
