package service

import (
	"errors"
	"testing"
	"time"

	"pacemaker_dcm/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type fakeAuthRepo struct {
	createID  int
	createErr error
	user      *models.User
	getErr    error

	lastUsername string
	lastHash     string
}

func (f *fakeAuthRepo) Create(username, passwordHash string) (int, error) {
	f.lastUsername = username
	f.lastHash = passwordHash
	return f.createID, f.createErr
}

func (f *fakeAuthRepo) GetByUsername(username string) (*models.User, error) {
	return f.user, f.getErr
}

func TestAuthService_SignUpHashesPassword(t *testing.T) {
	repo := &fakeAuthRepo{createID: 11}
	svc := NewAuthService(repo, AuthConfig{})

	id, err := svc.SignUp("alice", "s3cret")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if id != 11 {
		t.Fatalf("id: got %d", id)
	}
	if repo.lastHash == "s3cret" || repo.lastHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAuthService_SignUpEmptyPassword(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, AuthConfig{})
	if _, err := svc.SignUp("alice", "   "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo := &fakeAuthRepo{user: &models.User{ID: 7, Username: "bob", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, AuthConfig{})

	token, err := svc.GenerateToken("bob", "pw")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 7 {
		t.Fatalf("user id: got %d, want 7", id)
	}
}

func TestAuthService_GenerateTokenFailures(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAuthService(&fakeAuthRepo{user: nil}, AuthConfig{})
		if _, err := svc.GenerateToken("ghost", "pw"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewAuthService(&fakeAuthRepo{user: &models.User{ID: 1, PasswordHash: string(hash)}}, AuthConfig{})
		if _, err := svc.GenerateToken("bob", "nope"); !errors.Is(err, ErrInvalidPassword) {
			t.Fatalf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		boom := errors.New("db down")
		svc := NewAuthService(&fakeAuthRepo{getErr: boom}, AuthConfig{})
		if _, err := svc.GenerateToken("bob", "pw"); !errors.Is(err, boom) {
			t.Fatalf("expected repo error, got %v", err)
		}
	})
}

func TestAuthService_ParseTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, AuthConfig{})
	if _, err := svc.ParseToken("not.a.jwt"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAuthService_ConfiguredSigningKey(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	repo := &fakeAuthRepo{user: &models.User{ID: 3, Username: "bob", PasswordHash: string(hash)}}

	issuer := NewAuthService(repo, AuthConfig{SigningKey: "key-one"})
	other := NewAuthService(repo, AuthConfig{SigningKey: "key-two"})

	token, err := issuer.GenerateToken("bob", "pw")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if id, err := issuer.ParseToken(token); err != nil || id != 3 {
		t.Fatalf("issuer parse: id=%d err=%v", id, err)
	}
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("token accepted under a different signing key")
	}
}

func TestAuthService_ConfiguredTTLExpires(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	repo := &fakeAuthRepo{user: &models.User{ID: 5, Username: "bob", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, AuthConfig{TokenTTL: -time.Minute})

	token, err := svc.GenerateToken("bob", "pw")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}
