package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/auth"
	"github.com/tabmate/tabmate/internal/config"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/recurring"
	"github.com/tabmate/tabmate/internal/reports"
	"github.com/tabmate/tabmate/internal/service"
	"github.com/tabmate/tabmate/internal/storage/sqlite"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Port:       0,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		CORSOrigin: "*",
		RateLimit:  1000,
	}

	hub := notify.NewHub()
	ledger := service.NewLedgerService(store)
	_, app := New(cfg, Deps{
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWT:           auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Groups:        service.NewGroupService(store),
		Expenses:      service.NewExpenseService(store, hub, nil),
		Settlements:   service.NewSettlementService(store, ledger, hub),
		Ledger:        ledger,
		Budgets:       service.NewBudgetService(store, ledger),
		Recurring:     recurring.NewService(store),
		Reports:       reports.NewGenerator(store, ledger),
		Hub:           hub,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, email, name string) (token, id string) {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"email": email, "name": name, "password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", email, resp.StatusCode, body)
	}
	token = body["token"].(string)
	id = body["user"].(map[string]any)["id"].(string)
	return token, id
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	token, _ := register(t, app, "alice@example.com", "Alice")

	// Duplicate email rejected.
	resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"email": "alice@example.com", "name": "Alice II", "password": "password123",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate register: status %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login: status %d, want 401", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "GET", "/api/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/me: status %d", resp.StatusCode)
	}
	if body["email"] != "alice@example.com" {
		t.Errorf("/me email = %v", body["email"])
	}

	resp, _ = doJSON(t, app, "GET", "/api/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated /me: status %d, want 401", resp.StatusCode)
	}
}

func TestExpenseSettlementFlow(t *testing.T) {
	app := newTestApp(t)

	aliceToken, aliceID := register(t, app, "alice@example.com", "Alice")
	bobToken, bobID := register(t, app, "bob@example.com", "Bob")

	resp, group := doJSON(t, app, "POST", "/api/groups", aliceToken, map[string]any{
		"name": "Trip", "memberIds": []string{bobID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group: status %d, body %v", resp.StatusCode, group)
	}
	groupID := group["id"].(string)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/expenses", groupID), aliceToken, map[string]any{
		"description": "hotel",
		"amount":      "100.00",
		"payerId":     aliceID,
		"splitType":   "EQUAL",
		"splits":      []map[string]any{{"userId": aliceID}, {"userId": bobID}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expense: status %d", resp.StatusCode)
	}

	resp, debt := doJSON(t, app, "GET",
		fmt.Sprintf("/api/groups/%s/debt?payer=%s&payee=%s", groupID, bobID, aliceID), bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("debt query: status %d", resp.StatusCode)
	}
	if debt["outstanding"] != "50.00" {
		t.Errorf("outstanding = %v, want 50.00", debt["outstanding"])
	}

	// Partial payment.
	resp, rec := doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/settlements", groupID), bobToken, map[string]any{
		"fromUserId": bobID, "toUserId": aliceID, "amount": "20.00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record settlement: status %d, body %v", resp.StatusCode, rec)
	}
	if rec["wasPartial"] != true {
		t.Errorf("wasPartial = %v, want true", rec["wasPartial"])
	}
	if rec["remainingDebt"] != "30.00" {
		t.Errorf("remainingDebt = %v, want 30.00", rec["remainingDebt"])
	}

	// Validation errors surface as 400.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/settlements", groupID), bobToken, map[string]any{
		"fromUserId": bobID, "toUserId": bobID, "amount": "5.00",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("self settlement: status %d, want 400", resp.StatusCode)
	}

	// Unknown group surfaces as 404.
	resp, _ = doJSON(t, app, "GET", "/api/groups/nope/balances", aliceToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown group: status %d, want 404", resp.StatusCode)
	}
}

func TestOutsiderIsForbidden(t *testing.T) {
	app := newTestApp(t)

	aliceToken, _ := register(t, app, "alice@example.com", "Alice")
	eveToken, _ := register(t, app, "eve@example.com", "Eve")

	resp, group := doJSON(t, app, "POST", "/api/groups", aliceToken, map[string]any{"name": "Private"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group: status %d", resp.StatusCode)
	}
	groupID := group["id"].(string)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/groups/%s/balances", groupID), eveToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("outsider balances: status %d, want 403", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz: status %d", resp.StatusCode)
	}
	if body["ok"] != true {
		t.Errorf("/healthz body = %v", body)
	}
}
