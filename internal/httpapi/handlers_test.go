package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/chatbot"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/service"
	"github.com/surp29/Backend-PoS/internal/store/memory"
)

func newTestAPI(t *testing.T) (http.Handler, string) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := memory.New()
	svc := service.New(repo, nil, log)
	bot := chatbot.NewEngine(repo, nil, time.Minute)
	auth := NewAuthManager(repo, "test-secret", time.Hour, log)
	if err := auth.EnsureAdmin(context.Background(), "s3cret-admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	api := New(svc, auth, bot, log, "http://127.0.0.1:3000")
	handler := api.Handler()

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"admin","password":"s3cret-admin"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", resp.Code, resp.Body.String())
	}
	var login domain.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("login decode: %v", err)
	}
	return handler, login.Token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireAuth(t *testing.T) {
	handler, _ := newTestAPI(t)

	resp := doJSON(t, handler, http.MethodGet, "/api/v1/products", "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if success, _ := body["success"].(bool); success {
		t.Fatalf("body = %v, want success=false", body)
	}
}

func TestProductLifecycle(t *testing.T) {
	handler, token := newTestAPI(t)

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/products", token,
		`{"ma_sp":"SP001","ten_sp":"Trà xanh","so_luong":10,"gia_ban":25000}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Success bool           `json:"success"`
		Product domain.Product `json:"product"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Product.Code != "SP001" {
		t.Fatalf("create body = %s", resp.Body.String())
	}
	if created.Product.Status != domain.ProductStatusInStock {
		t.Fatalf("status = %q", created.Product.Status)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/products/SP001", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get status = %d", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodDelete, "/api/v1/products/SP001", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/products/SP001", token, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", resp.Code)
	}
}

func TestStaffCannotManageUsers(t *testing.T) {
	handler, adminToken := newTestAPI(t)

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/users", adminToken,
		`{"username":"nv01","password":"matkhau123","role":"staff"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create staff = %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"nv01","password":"matkhau123"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("staff login = %d: %s", resp.Code, resp.Body.String())
	}
	var login domain.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/users", login.Token, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("staff listing users = %d, want 403", resp.Code)
	}

	// Staff can still hit the regular catalog routes.
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/products", login.Token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("staff listing products = %d, want 200", resp.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	handler, _ := newTestAPI(t)

	var last int
	for i := 0; i < 6; i++ {
		resp := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
			`{"username":"admin","password":"sai-mat-khau"}`)
		last = resp.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("sixth attempt = %d, want 429", last)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	handler, _ := newTestAPI(t)

	resp := doJSON(t, handler, http.MethodGet, "/healthz", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}
	if resp.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	handler, token := newTestAPI(t)

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/products", token,
		`{"ma_sp":"SP001","ten_sp":"Trà xanh","bogus":true}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
