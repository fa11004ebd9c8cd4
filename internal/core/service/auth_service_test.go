package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
	"github.com/devconnector/profile-api/internal/pkg/password"
	"github.com/devconnector/profile-api/internal/pkg/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	found := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found[id] = cloneUser(u)
		}
	}
	return found, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.ProfileEventInput
}

func (p *stubPublisher) Publish(e ports.ProfileEventInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *stubPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.events))
	for _, e := range p.events {
		actions = append(actions, e.Action)
	}
	return actions
}

func newAuthService(repo *stubUserRepo) (*AuthService, *token.Service, *stubPublisher) {
	tokens := token.NewService("secret", time.Hour)
	pub := &stubPublisher{}
	return NewAuthService(repo, tokens, pub, zerolog.Nop()), tokens, pub
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens, _ := newAuthService(repo)

	tok, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	userID, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("returned token invalid: %v", err)
	}

	user, err := repo.FindByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("registered user not stored: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if !password.Verify("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Avatar == "" {
		t.Fatalf("expected gravatar avatar to be derived")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newAuthService(repo)

	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bobby", "bob@example.com", "other"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens, pub := newAuthService(repo)

	if _, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tok, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	userID, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if user, _ := repo.FindByID(context.Background(), userID); user == nil || user.Name != "Carol" {
		t.Fatalf("token subject does not resolve to the user")
	}

	actions := pub.actions()
	if len(actions) != 1 || actions[0] != ports.ActionLogin {
		t.Fatalf("expected a login audit event, got %v", actions)
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newAuthService(repo)

	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")

	// wrong password and unknown email must yield the identical error
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "goodpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGravatarURL_Deterministic(t *testing.T) {
	a := gravatarURL("Alice@Example.com ")
	b := gravatarURL("alice@example.com")
	if a != b {
		t.Fatalf("gravatar must normalize case and whitespace: %s vs %s", a, b)
	}
	if a != "https://www.gravatar.com/avatar/c160f8cc69a4f0bf2b0362752353d060?s=200&r=pg&d=mm" {
		t.Fatalf("unexpected gravatar url: %s", a)
	}
}
