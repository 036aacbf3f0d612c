package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

// UserStore is the slice of the repository the auth layer needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	CreateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error)
	UpdateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error)
	DeleteUser(ctx context.Context, id int64) error
}

type AuthManager struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	log      *logrus.Logger
}

type posClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewAuthManager(users UserStore, secret string, tokenTTL time.Duration, log *logrus.Logger) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	if log == nil {
		log = logrus.New()
	}
	return &AuthManager{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// EnsureAdmin creates a bootstrap admin account when the user table is
// empty, so a fresh database is reachable without manual SQL.
func (a *AuthManager) EnsureAdmin(ctx context.Context, password string) error {
	existing, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if password == "" {
		password = "admin123"
		a.log.Warn("SEED_ADMIN_PASSWORD not set, using default admin credentials")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	_, err = a.users.CreateUser(ctx, domain.UserAccount{
		User: domain.User{
			Username: "admin",
			FullName: "Quản trị viên",
			Role:     domain.RoleAdmin,
			Active:   true,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	a.log.WithField("username", "admin").Info("bootstrap admin account created")
	return nil
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	account, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.LoginResponse{}, errors.New("tên đăng nhập hoặc mật khẩu không đúng")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return domain.LoginResponse{}, errors.New("tên đăng nhập hoặc mật khẩu không đúng")
	}
	if !account.Active {
		return domain.LoginResponse{}, errors.New("tài khoản đã bị khóa")
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(account.Username, account.Role, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		User:      account.User,
	}, nil
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &posClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}
	return domain.Actor{Username: sub, Role: claims.Role}, nil
}

func (a *AuthManager) sign(username, role string, expiresAt time.Time) (string, error) {
	claims := posClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "backend-pos",
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AuthManager) ListUsers(ctx context.Context) ([]domain.User, error) {
	accounts, err := a.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, acc.User)
	}
	return out, nil
}

func (a *AuthManager) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || len(username) < 3 {
		return domain.User{}, errors.New("tên đăng nhập phải có ít nhất 3 ký tự")
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return domain.User{}, errors.New("tên đăng nhập không được chứa khoảng trắng")
	}
	if len(req.Password) < 8 {
		return domain.User{}, errors.New("mật khẩu phải có ít nhất 8 ký tự")
	}
	role := req.Role
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		role = domain.RoleStaff
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := a.users.CreateUser(ctx, domain.UserAccount{
		User: domain.User{
			Username: username,
			FullName: req.FullName,
			Email:    req.Email,
			Role:     role,
			Active:   true,
		},
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.User{}, fmt.Errorf("tên đăng nhập %s đã tồn tại: %w", username, err)
		}
		return domain.User{}, err
	}
	return created.User, nil
}

func (a *AuthManager) UpdateUser(ctx context.Context, id int64, req domain.UserUpdateRequest) (domain.User, error) {
	accounts, err := a.users.ListUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	var existing *domain.UserAccount
	for i := range accounts {
		if accounts[i].ID == id {
			existing = &accounts[i]
			break
		}
	}
	if existing == nil {
		return domain.User{}, fmt.Errorf("không tìm thấy người dùng: %w", store.ErrNotFound)
	}

	updated := *existing
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return domain.User{}, errors.New("mật khẩu phải có ít nhất 8 ký tự")
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return domain.User{}, err
		}
		updated.PasswordHash = hash
	}
	if req.FullName != nil {
		updated.FullName = *req.FullName
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != domain.RoleAdmin && *req.Role != domain.RoleStaff {
			return domain.User{}, errors.New("vai trò không hợp lệ")
		}
		updated.Role = *req.Role
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	persisted, err := a.users.UpdateUser(ctx, updated)
	if err != nil {
		return domain.User{}, err
	}
	return persisted.User, nil
}

func (a *AuthManager) DeleteUser(ctx context.Context, id int64) error {
	if err := a.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("không tìm thấy người dùng: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
