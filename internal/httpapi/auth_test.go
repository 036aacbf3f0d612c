package httpapi

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store/memory"
)

func newTestAuth(t *testing.T) (*AuthManager, *memory.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := memory.New()
	return NewAuthManager(repo, "test-secret", time.Hour, log), repo
}

func TestEnsureAdminBootstrap(t *testing.T) {
	auth, repo := newTestAuth(t)
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx, "s3cret-admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	account, err := repo.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("admin missing: %v", err)
	}
	if account.Role != domain.RoleAdmin || !account.Active {
		t.Fatalf("admin account = %+v", account.User)
	}

	// A populated user table must not be touched again.
	if err := auth.EnsureAdmin(ctx, "khac-mat-khau"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
}

func TestLoginAndParseToken(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx, "s3cret-admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	resp, err := auth.Login(ctx, domain.LoginRequest{Username: "admin", Password: "s3cret-admin"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.TokenType != "bearer" || resp.Token == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.User.Username != "admin" {
		t.Fatalf("user = %+v", resp.User)
	}

	actor, err := auth.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if actor.Username != "admin" || actor.Role != domain.RoleAdmin {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx, "s3cret-admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if _, err := auth.Login(ctx, domain.LoginRequest{Username: "admin", Password: "sai-mat-khau"}); err == nil {
		t.Fatal("wrong password must fail")
	}
	if _, err := auth.Login(ctx, domain.LoginRequest{Username: "khongco", Password: "s3cret-admin"}); err == nil {
		t.Fatal("unknown user must fail")
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.CreateUser(ctx, domain.UserCreateRequest{
		Username: "nv01",
		Password: "matkhau123",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	users, err := auth.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("list: %v (%d users)", err, len(users))
	}
	inactive := false
	if _, err := auth.UpdateUser(ctx, users[0].ID, domain.UserUpdateRequest{Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := auth.Login(ctx, domain.LoginRequest{Username: "nv01", Password: "matkhau123"}); err == nil {
		t.Fatal("locked account must not log in")
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()
	if err := auth.EnsureAdmin(ctx, "s3cret-admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	resp, err := auth.Login(ctx, domain.LoginRequest{Username: "admin", Password: "s3cret-admin"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := NewAuthManager(memory.New(), "another-secret", time.Hour, nil)
	if _, err := other.ParseToken(resp.Token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
	if _, err := auth.ParseToken("not.a.token"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
}

func TestCreateUserValidation(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.CreateUser(ctx, domain.UserCreateRequest{Username: "ab", Password: "matkhau123"}); err == nil {
		t.Fatal("short username must fail")
	}
	if _, err := auth.CreateUser(ctx, domain.UserCreateRequest{Username: "nv01", Password: "ngan"}); err == nil {
		t.Fatal("short password must fail")
	}

	created, err := auth.CreateUser(ctx, domain.UserCreateRequest{
		Username: "NV01",
		Password: "matkhau123",
		Role:     "manager",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Username != "nv01" {
		t.Fatalf("username = %q, want lowercased", created.Username)
	}
	if created.Role != domain.RoleStaff {
		t.Fatalf("role = %q, want fallback %q", created.Role, domain.RoleStaff)
	}

	if _, err := auth.CreateUser(ctx, domain.UserCreateRequest{Username: "nv01", Password: "matkhau123"}); err == nil {
		t.Fatal("duplicate username must fail")
	}
}
