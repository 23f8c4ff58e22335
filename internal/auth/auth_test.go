package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerifyToken(t *testing.T) {
	svc := NewService("test-secret", 7)

	token, err := svc.IssueToken("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("user id = %q", userID)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewService("secret-a", 7).IssueToken("user-123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewService("secret-b", 7).VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := NewService("test-secret", 7)
	claims := jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VerifyToken(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyToken_MissingUserID(t *testing.T) {
	svc := NewService("test-secret", 7)
	claims := jwt.MapClaims{"exp": jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := NewService("test-secret", 7)
	if _, err := svc.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in the clear")
	}
	if err := CheckPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := CheckPassword("wrong", hash); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}
