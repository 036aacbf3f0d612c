package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/chatbot"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/service"
	"github.com/surp29/Backend-PoS/internal/store"
	"github.com/surp29/Backend-PoS/internal/xid"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	bot           *chatbot.Engine
	log           *logrus.Logger
	allowedOrigin string
	loginLimiter  *attemptLimiter
}

func New(svc *service.Service, auth *AuthManager, bot *chatbot.Engine, log *logrus.Logger, allowedOrigin string) *API {
	if log == nil {
		log = logrus.New()
	}
	return &API{
		service:       svc,
		auth:          auth,
		bot:           bot,
		log:           log,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)

	anyRole := []string{domain.RoleStaff, domain.RoleAdmin}

	mux.HandleFunc("/api/v1/products", a.requireAuth(a.handleProducts, anyRole...))
	mux.HandleFunc("/api/v1/products/", a.requireAuth(a.handleProductActions, anyRole...))
	mux.HandleFunc("/api/v1/product-groups", a.requireAuth(a.handleProductGroups, anyRole...))

	mux.HandleFunc("/api/v1/prices", a.requireAuth(a.handlePrices, anyRole...))
	mux.HandleFunc("/api/v1/prices/", a.requireAuth(a.handlePriceActions, anyRole...))

	mux.HandleFunc("/api/v1/warehouses", a.requireAuth(a.handleWarehouses, anyRole...))
	mux.HandleFunc("/api/v1/warehouses/", a.requireAuth(a.handleWarehouseActions, anyRole...))

	mux.HandleFunc("/api/v1/orders", a.requireAuth(a.handleOrders, anyRole...))
	mux.HandleFunc("/api/v1/orders/search", a.requireAuth(a.handleOrderSearch, anyRole...))
	mux.HandleFunc("/api/v1/orders/check-duplicate", a.requireAuth(a.handleOrderDuplicate, anyRole...))
	mux.HandleFunc("/api/v1/orders/", a.requireAuth(a.handleOrderActions, anyRole...))

	mux.HandleFunc("/api/v1/invoices", a.requireAuth(a.handleInvoices, anyRole...))
	mux.HandleFunc("/api/v1/invoices/", a.requireAuth(a.handleInvoiceActions, anyRole...))

	mux.HandleFunc("/api/v1/accounts", a.requireAuth(a.handleAccounts, anyRole...))
	mux.HandleFunc("/api/v1/accounts/", a.requireAuth(a.handleAccountActions, anyRole...))

	mux.HandleFunc("/api/v1/customers/aggregates", a.requireAuth(a.handleCustomerAggregates, anyRole...))
	mux.HandleFunc("/api/v1/customers/leaderboard", a.requireAuth(a.handleCustomerLeaderboard, anyRole...))
	mux.HandleFunc("/api/v1/customers/debt", a.requireAuth(a.handleCustomerDebt, anyRole...))

	mux.HandleFunc("/api/v1/areas", a.requireAuth(a.handleAreas, anyRole...))
	mux.HandleFunc("/api/v1/areas/", a.requireAuth(a.handleAreaActions, anyRole...))
	mux.HandleFunc("/api/v1/shops", a.requireAuth(a.handleShops, anyRole...))
	mux.HandleFunc("/api/v1/shops/", a.requireAuth(a.handleShopActions, anyRole...))

	mux.HandleFunc("/api/v1/discount-codes", a.requireAuth(a.handleDiscounts, anyRole...))
	mux.HandleFunc("/api/v1/discount-codes/validate", a.requireAuth(a.handleDiscountValidate, anyRole...))
	mux.HandleFunc("/api/v1/discount-codes/apply", a.requireAuth(a.handleDiscountApply, anyRole...))
	mux.HandleFunc("/api/v1/discount-codes/", a.requireAuth(a.handleDiscountActions, anyRole...))

	mux.HandleFunc("/api/v1/schedules", a.requireAuth(a.handleSchedules, anyRole...))
	mux.HandleFunc("/api/v1/schedules/", a.requireAuth(a.handleScheduleActions, anyRole...))

	mux.HandleFunc("/api/v1/users", a.requireAuth(a.handleUsers, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/users/", a.requireAuth(a.handleUserActions, domain.RoleAdmin))

	mux.HandleFunc("/api/v1/general-diary", a.requireAuth(a.handleDiary, anyRole...))
	mux.HandleFunc("/api/v1/reports/summary", a.requireAuth(a.handleRevenueSummary, anyRole...))

	mux.HandleFunc("/api/v1/chatbot/analyze", a.requireAuth(a.handleChatAnalyze, anyRole...))
	mux.HandleFunc("/api/v1/chatbot/suggestions", a.requireAuth(a.handleChatSuggestions, anyRole...))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			a.writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			a.writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			a.writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeMethodNotAllowed(w)
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !a.loginLimiter.Allow(strings.ToLower(strings.TrimSpace(req.Username)) + "|" + clientKey(r)) {
		a.writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		a.writeError(w, http.StatusUnauthorized, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- products ---

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.service.ListProducts(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "product", product)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/products/")
	if tail == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("product code required"))
		return
	}

	if code, ok := strings.CutSuffix(tail, "/movements"); ok {
		if r.Method != http.MethodGet {
			a.writeMethodNotAllowed(w)
			return
		}
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
		movements, err := a.service.ListStockMovements(r.Context(), strings.Trim(code, "/"), limit)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, movements)
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), tail)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	case http.MethodPut, http.MethodPatch:
		var req domain.ProductUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := a.service.UpdateProduct(r.Context(), tail, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "product", product)
	case http.MethodDelete:
		if err := a.service.DeleteProduct(r.Context(), tail); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	groups, err := a.service.ListProductGroups(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// --- prices ---

func (a *API) handlePrices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prices, err := a.service.ListPrices(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prices)
	case http.MethodPost:
		var req domain.PriceWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.CreatePrice(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "price", entry)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handlePriceActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/prices/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.PriceWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.UpdatePrice(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "price", entry)
	case http.MethodDelete:
		if err := a.service.DeletePrice(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- warehouses ---

func (a *API) handleWarehouses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		warehouses, err := a.service.ListWarehouses(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, warehouses)
	case http.MethodPost:
		var req domain.WarehouseWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		wh, err := a.service.CreateWarehouse(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "warehouse", wh)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleWarehouseActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/warehouses/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.WarehouseWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		wh, err := a.service.UpdateWarehouse(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "warehouse", wh)
	case http.MethodDelete:
		if err := a.service.DeleteWarehouse(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- orders ---

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		orders, err := a.service.ListOrders(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	case http.MethodPost:
		var req domain.OrderCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.CreateOrder(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "order", order)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleOrderSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	orders, err := a.service.SearchOrders(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *API) handleOrderDuplicate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("order code required"))
		return
	}
	exists, err := a.service.OrderCodeExists(r.Context(), code)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": exists})
}

func (a *API) handleOrderActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/orders/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := a.service.GetOrder(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	case http.MethodPut, http.MethodPatch:
		var req domain.OrderUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.UpdateOrder(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "order", order)
	case http.MethodDelete:
		if err := a.service.DeleteOrder(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- invoices ---

func (a *API) handleInvoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		invoices, err := a.service.ListInvoices(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoices)
	case http.MethodPost:
		var req domain.InvoiceCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		inv, err := a.service.CreateInvoice(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "invoice", inv)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleInvoiceActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/invoices/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		inv, err := a.service.GetInvoice(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	case http.MethodPut, http.MethodPatch:
		var req domain.InvoiceUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		inv, err := a.service.UpdateInvoice(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "invoice", inv)
	case http.MethodDelete:
		if err := a.service.DeleteInvoice(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- accounts / customers ---

func (a *API) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := a.service.ListAccounts(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	case http.MethodPost:
		var req domain.AccountWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		acc, err := a.service.CreateAccount(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "account", acc)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleAccountActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/accounts/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		acc, err := a.service.GetAccount(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	case http.MethodPut, http.MethodPatch:
		var req domain.AccountWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		acc, err := a.service.UpdateAccount(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "account", acc)
	case http.MethodDelete:
		if err := a.service.DeleteAccount(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomerAggregates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	aggregates, err := a.service.CustomerAggregates(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregates)
}

func (a *API) handleCustomerLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
	leaderboard, err := a.service.CustomerLeaderboard(r.Context(), limit)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboard)
}

func (a *API) handleCustomerDebt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("customer name required"))
		return
	}
	debt, err := a.service.CustomerDebt(r.Context(), name)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": name, "cong_no": debt})
}

// --- areas and shops ---

func (a *API) handleAreas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		areas, err := a.service.ListAreas(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, areas)
	case http.MethodPost:
		var req domain.Area
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		area, err := a.service.CreateArea(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "area", area)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleAreaActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/areas/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.Area
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		area, err := a.service.UpdateArea(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "area", area)
	case http.MethodDelete:
		if err := a.service.DeleteArea(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleShops(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		shops, err := a.service.ListShops(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, shops)
	case http.MethodPost:
		var req domain.ShopWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		shop, err := a.service.CreateShop(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "shop", shop)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleShopActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/shops/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.ShopWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		shop, err := a.service.UpdateShop(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "shop", shop)
	case http.MethodDelete:
		if err := a.service.DeleteShop(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- discounts ---

func (a *API) handleDiscounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		codes, err := a.service.ListDiscountCodes(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, codes)
	case http.MethodPost:
		var req domain.DiscountWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		dc, err := a.service.CreateDiscountCode(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "discount", dc)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleDiscountValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeMethodNotAllowed(w)
		return
	}
	var req domain.DiscountCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.service.CheckDiscount(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleDiscountApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeMethodNotAllowed(w)
		return
	}
	var req domain.DiscountCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.service.ApplyDiscount(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "result", result)
}

func (a *API) handleDiscountActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/discount-codes/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.DiscountWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		dc, err := a.service.UpdateDiscountCode(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "discount", dc)
	case http.MethodDelete:
		if err := a.service.DeleteDiscountCode(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- schedules ---

func (a *API) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		schedules, err := a.service.ListSchedules(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, schedules)
	case http.MethodPost:
		var req domain.ScheduleWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		sc, err := a.service.CreateSchedule(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "schedule", sc)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleScheduleActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/schedules/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.ScheduleWriteRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		sc, err := a.service.UpdateSchedule(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "schedule", sc)
	case http.MethodDelete:
		if err := a.service.DeleteSchedule(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- users ---

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := a.auth.ListUsers(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	case http.MethodPost:
		var req domain.UserCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		user, err := a.auth.CreateUser(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "user", user)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleUserActions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(pathTail(r.URL.Path, "/api/v1/users/"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req domain.UserUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		user, err := a.auth.UpdateUser(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "user", user)
	case http.MethodDelete:
		if err := a.auth.DeleteUser(r.Context(), id); err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", nil)
	default:
		a.writeMethodNotAllowed(w)
	}
}

// --- diary, reports, chatbot ---

func (a *API) handleDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 0, 1000)

	entries, err := a.service.ListDiary(r.Context(), from, to, limit)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) handleRevenueSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := a.service.RevenueSummary(r.Context(), from, to)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleChatAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeMethodNotAllowed(w)
		return
	}
	var req domain.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("message required"))
		return
	}
	resp, err := a.bot.Analyze(r.Context(), req.Message)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleChatSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	suggestions, err := a.bot.Suggestions(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// --- middleware and helpers ---

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		requestID := xid.New("req")
		w.Header().Set("X-Request-ID", requestID)

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		a.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(startedAt).String(),
		}).Info("request")
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func pathTail(path string, prefix string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimPrefix(path, prefix), "/"))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseDateParam accepts RFC 3339 or plain YYYY-MM-DD values.
func parseDateParam(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("invalid date, expected RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

// statusForError maps service failures onto HTTP codes. Business errors
// wrap the store sentinels, so errors.Is sees through the Vietnamese
// user-facing messages.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrProductReferenced):
		return http.StatusConflict
	case strings.Contains(err.Error(), "admin role required"):
		return http.StatusForbidden
	case strings.Contains(err.Error(), "dữ liệu không hợp lệ"),
		strings.Contains(err.Error(), "không hợp lệ"),
		strings.Contains(err.Error(), "không được"),
		strings.Contains(err.Error(), "phải có"),
		strings.Contains(err.Error(), "không tồn tại"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	a.writeError(w, statusForError(err), err)
}

func (a *API) writeMethodNotAllowed(w http.ResponseWriter) {
	a.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= 500 {
		a.log.WithField("status", status).WithError(err).Error("internal error")
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func writeSuccess(w http.ResponseWriter, status int, key string, value any) {
	payload := map[string]any{"success": true}
	if key != "" {
		payload[key] = value
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
