package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/auth"
	"fintrack/internal/ledger"
	"fintrack/internal/query"
	"fintrack/internal/services"
	"fintrack/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.New()
	entities := services.NewEntityService(store)
	ledgerSvc := services.NewLedgerService(ledger.New(store), nil)
	queries := query.New(store)
	authenticator := auth.NewHeaderAuthenticator(store)
	srv := NewServer("0", store, entities, ledgerSvc, queries, authenticator)
	t.Cleanup(func() { srv.limiter.shutdown() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID > 0 {
		req.Header.Set(auth.UserIDHeader, fmt.Sprintf("%d", userID))
	}
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// seedBasics creates a user, category and account through the API and
// returns their ids.
func seedBasics(t *testing.T, srv *Server) (userID, categoryID, accountID int64) {
	t.Helper()

	rec := doRequest(t, srv, http.MethodPost, "/users", `{"username":"mario","email":"mario@example.com"}`, 0)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeBody[userResponse](t, rec)

	rec = doRequest(t, srv, http.MethodPost, "/categories", `{"name":"groceries"}`, user.ID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status %d: %s", rec.Code, rec.Body.String())
	}
	category := decodeBody[categoryResponse](t, rec)

	body := fmt.Sprintf(`{"user_id":%d,"name":"checking"}`, user.ID)
	rec = doRequest(t, srv, http.MethodPost, "/accounts", body, user.ID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d: %s", rec.Code, rec.Body.String())
	}
	account := decodeBody[accountResponse](t, rec)

	return user.ID, category.ID, account.ID
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", "", 0); rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", "", 0); rec.Code != http.StatusOK {
		t.Errorf("readyz: expected 200, got %d", rec.Code)
	}
}

func TestMutationsRequireAuthentication(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/categories", `{"name":"groceries"}`, 0)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity header, got %d", rec.Code)
	}

	// Unknown user id is also rejected.
	rec = doRequest(t, srv, http.MethodPost, "/categories", `{"name":"groceries"}`, 42)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestTransactionLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	userID, categoryID, accountID := seedBasics(t, srv)

	body := fmt.Sprintf(`{"user_id":%d,"category_id":%d,"account_id":%d,"amount":"-25.50","description":"weekly shop"}`,
		userID, categoryID, accountID)
	rec := doRequest(t, srv, http.MethodPost, "/transactions", body, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction: status %d: %s", rec.Code, rec.Body.String())
	}
	posted := decodeBody[transactionResponse](t, rec)
	if posted.Amount != "-25.50" {
		t.Errorf("expected amount -25.50, got %q", posted.Amount)
	}

	// The account statement reflects the posting.
	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/accounts/%d", accountID), "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account: status %d", rec.Code)
	}
	stmt := decodeBody[accountStatementResponse](t, rec)
	if stmt.Account.Balance != "-25.50" {
		t.Errorf("expected balance -25.50, got %q", stmt.Account.Balance)
	}
	if len(stmt.Transactions) != 1 {
		t.Errorf("expected 1 transaction on statement, got %d", len(stmt.Transactions))
	}

	// Amend the amount; the balance follows.
	body = fmt.Sprintf(`{"user_id":%d,"category_id":%d,"account_id":%d,"amount":"-30.00","description":"weekly shop"}`,
		userID, categoryID, accountID)
	rec = doRequest(t, srv, http.MethodPut, fmt.Sprintf("/transactions/%d", posted.ID), body, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("amend transaction: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/accounts/%d", accountID), "", 0)
	stmt = decodeBody[accountStatementResponse](t, rec)
	if stmt.Account.Balance != "-30.00" {
		t.Errorf("expected balance -30.00 after amend, got %q", stmt.Account.Balance)
	}

	// The detail projection resolves the referenced entities.
	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/transactions/%d", posted.ID), "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("get transaction: status %d", rec.Code)
	}
	detail := decodeBody[transactionDetailResponse](t, rec)
	if detail.User.Username != "mario" || detail.Category.Name != "groceries" {
		t.Errorf("unexpected detail projection: %+v", detail)
	}
	if detail.Account == nil || detail.Account.ID != accountID {
		t.Error("expected resolved account in detail")
	}

	// Void restores the balance and removes the transaction.
	rec = doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/transactions/%d", posted.ID), "", userID)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("void transaction: status %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/accounts/%d", accountID), "", 0)
	stmt = decodeBody[accountStatementResponse](t, rec)
	if stmt.Account.Balance != "0.00" {
		t.Errorf("expected balance 0.00 after void, got %q", stmt.Account.Balance)
	}
	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/transactions/%d", posted.ID), "", 0)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after void, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	userID, categoryID, accountID := seedBasics(t, srv)

	t.Run("missing entity is 404", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/users/9999", "", 0)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/transactions", `{"user_id":`, userID)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unparseable amount is 422", func(t *testing.T) {
		body := fmt.Sprintf(`{"user_id":%d,"category_id":%d,"amount":"lots"}`, userID, categoryID)
		rec := doRequest(t, srv, http.MethodPost, "/transactions", body, userID)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("overlong name is 422", func(t *testing.T) {
		body := fmt.Sprintf(`{"name":%q}`, strings.Repeat("x", 101))
		rec := doRequest(t, srv, http.MethodPost, "/categories", body, userID)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("overlong description is 422", func(t *testing.T) {
		body := fmt.Sprintf(`{"user_id":%d,"category_id":%d,"amount":"-1.00","description":%q}`,
			userID, categoryID, strings.Repeat("x", 201))
		rec := doRequest(t, srv, http.MethodPost, "/transactions", body, userID)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("invalid validation is 422", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/users", `{"username":"","email":"a@b.com"}`, 0)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("delete referenced entity is 409", func(t *testing.T) {
		body := fmt.Sprintf(`{"user_id":%d,"category_id":%d,"account_id":%d,"amount":"-1.00"}`,
			userID, categoryID, accountID)
		rec := doRequest(t, srv, http.MethodPost, "/transactions", body, userID)
		if rec.Code != http.StatusCreated {
			t.Fatalf("post transaction: status %d", rec.Code)
		}

		rec = doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/accounts/%d", accountID), "", userID)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})
}

func TestPreferenceEndpoints(t *testing.T) {
	srv := newTestServer(t)
	userID, categoryID, _ := seedBasics(t, srv)

	body := fmt.Sprintf(`{"user_id":%d,"category_id":%d,"notifications_enabled":true}`, userID, categoryID)
	rec := doRequest(t, srv, http.MethodPost, "/preferences", body, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create preference: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/preferences", body, userID)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate preference, got %d", rec.Code)
	}

	path := fmt.Sprintf("/preferences/%d/%d", userID, categoryID)
	rec = doRequest(t, srv, http.MethodPut, path, `{"notifications_enabled":false}`, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("update preference: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, path, "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("get preference: status %d", rec.Code)
	}
	pref := decodeBody[preferenceResponse](t, rec)
	if pref.NotificationsEnabled {
		t.Error("expected notifications disabled")
	}

	rec = doRequest(t, srv, http.MethodDelete, path, "", userID)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete preference: status %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, path, "", 0)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", 0)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "test-id-123" {
		t.Errorf("expected propagated request id, got %q", got)
	}
}
