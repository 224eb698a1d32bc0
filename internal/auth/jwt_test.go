package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания TokenIssuer: %v", err)
	}
	return ti
}

// TestIssueAndValidate тестирует выпуск и проверку токена
func TestIssueAndValidate(t *testing.T) {
	ti := newTestIssuer(t)

	token, err := ti.Issue("editor")
	if err != nil {
		t.Fatalf("Ошибка генерации JWT: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Неверный формат JWT токена: %s", token)
	}

	claims, err := ti.Validate(token)
	if err != nil {
		t.Fatalf("Валидный токен определен как недействительный: %v", err)
	}
	if claims.Role != RoleEditor || claims.Subject != "editor" {
		t.Errorf("Неверные claims: %+v", claims)
	}
}

// TestValidateInvalidJWT тестирует валидацию недействительного JWT
func TestValidateInvalidJWT(t *testing.T) {
	ti := newTestIssuer(t)

	testCases := []string{
		"invalid.token.here",
		"",
		"not.a.jwt",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}
	for _, invalidToken := range testCases {
		if _, err := ti.Validate(invalidToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Токен %q: ожидалась ErrInvalidToken, получено %v", invalidToken, err)
		}
	}

	// Токен, подписанный другим секретом
	other, err := NewTokenIssuer(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 40))), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.Issue("editor")
	if _, err := ti.Validate(foreign); err == nil {
		t.Error("Принят токен с чужой подписью")
	}

	// Токен без роли editor
	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "viewer"})
	signed, _ := noRole.SignedString(ti.secret)
	if _, err := ti.Validate(signed); err == nil {
		t.Error("Принят токен без роли editor")
	}
}

// TestExpiredJWT тестирует истечение срока действия
func TestExpiredJWT(t *testing.T) {
	ti := newTestIssuer(t)
	issued := time.Now()
	ti.now = func() time.Time { return issued }

	token, err := ti.Issue("editor")
	if err != nil {
		t.Fatal(err)
	}

	ti.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := ti.Validate(token); err == nil {
		t.Error("Истекший токен принят")
	}
}

func TestNewTokenIssuer_WeakSecret(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := NewTokenIssuer(short, time.Hour); !errors.Is(err, ErrWeakSecret) {
		t.Errorf("Ожидалась ErrWeakSecret, получено %v", err)
	}
	if _, err := NewTokenIssuer("%%% not base64", time.Hour); err == nil {
		t.Error("Принят секрет не в base64")
	}
}

func TestAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	a, err := NewAuthenticator(string(hash), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания аутентификатора: %v", err)
	}

	if _, err := a.Login("wrong"); !errors.Is(err, ErrBadPassword) {
		t.Errorf("Ожидалась ErrBadPassword, получено %v", err)
	}

	token, err := a.Login("s3cret")
	if err != nil {
		t.Fatalf("Ошибка входа: %v", err)
	}
	if _, err := a.Verify(token); err != nil {
		t.Errorf("Токен после входа не прошел проверку: %v", err)
	}

	if _, err := NewAuthenticator("not-a-bcrypt-hash", testSecret, time.Hour); err == nil {
		t.Error("Принят некорректный bcrypt-хеш")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pass")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "pass") || CheckPassword(hash, "other") {
		t.Error("CheckPassword работает неверно")
	}
}
