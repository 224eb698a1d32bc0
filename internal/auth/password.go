package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadPassword - пароль не совпал с хешем
var ErrBadPassword = errors.New("bad password")

// HashPassword returns a bcrypt hash of the password using DefaultCost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash string, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticator обменивает пароль редактора на токен
type Authenticator struct {
	passwordHash string
	issuer       *TokenIssuer
}

// NewAuthenticator собирает аутентификатор из bcrypt-хеша и секрета JWT
func NewAuthenticator(passwordHash, secret string, ttl time.Duration) (*Authenticator, error) {
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}
	issuer, err := NewTokenIssuer(secret, ttl)
	if err != nil {
		return nil, err
	}
	return &Authenticator{passwordHash: passwordHash, issuer: issuer}, nil
}

// Login проверяет пароль и выпускает токен
func (a *Authenticator) Login(password string) (string, error) {
	if !CheckPassword(a.passwordHash, password) {
		return "", ErrBadPassword
	}
	return a.issuer.Issue(RoleEditor)
}

// Verify проверяет токен из заголовка Authorization
func (a *Authenticator) Verify(token string) (*Claims, error) {
	return a.issuer.Validate(token)
}
