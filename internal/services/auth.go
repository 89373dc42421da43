package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService gates the organizer surface. There is a single shared
// secret, configured either as a plain password or as a bcrypt hash; a
// successful login yields a short-lived JWT so the password is entered once
// instead of on every admin action.
type AdminAuthService struct {
	password     string
	passwordHash string
	jwtSecret    []byte
}

func NewAdminAuthService(password, passwordHash, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{
		password:     password,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
	}
}

func (s *AdminAuthService) Login(password string) (string, error) {
	if !s.checkPassword(password) {
		return "", errors.New("invalid credentials")
	}
	return s.generateToken()
}

func (s *AdminAuthService) checkPassword(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

func (s *AdminAuthService) generateToken() (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AdminAuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return errors.New("invalid claims")
	}
	return nil
}
