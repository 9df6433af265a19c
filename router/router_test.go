// file: router/router_test.go

package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-bank-ledger/app"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// --- Test Helper Functions ---

type testEnv struct {
	app   *app.App
	redis *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &testEnv{app: app.NewTestApp(rdb), redis: mr}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.app.Router.ServeHTTP(rr, req)
	return rr
}

// registerAndLogin creates a user and returns its id and access token.
// Customers sign up through /register; admins come from the bootstrap seed.
func (e *testEnv) registerAndLogin(t *testing.T, username string, role model.Role) (int64, string) {
	t.Helper()
	if role == model.RoleAdmin {
		require.NoError(t, e.app.SeedAdmin(context.Background(), username, username+"@bank.test", "password123"))
	} else {
		body := fmt.Sprintf(`{"username":%q,"email":"%s@bank.test","password":"password123",
			"first_name":"Test","last_name":"User","phone":"5550100"}`, username, username)
		rr := e.do(t, http.MethodPost, "/register", "", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	return e.login(t, username, "password123")
}

func (e *testEnv) login(t *testing.T, username, password string) (int64, string) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/login", "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	claims, err := e.app.Auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	return claims.UserID, resp.AccessToken
}

func (e *testEnv) openAccount(t *testing.T, adminToken string, ownerID int64, accountType, balance string) model.Account {
	t.Helper()
	body := fmt.Sprintf(`{"owner_id":%d,"account_type":%q,"initial_balance":%q}`, ownerID, accountType, balance)
	rr := e.do(t, http.MethodPost, "/api/accounts", adminToken, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var account model.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	return account
}

func (e *testEnv) balance(t *testing.T, token, accountNumber string) decimal.Decimal {
	t.Helper()
	rr := e.do(t, http.MethodGet, "/api/accounts/"+accountNumber, token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var account model.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	return account.Balance
}

func transferBody(from, to, amount string) string {
	return fmt.Sprintf(`{"from_account":%q,"to_account":%q,"amount":%q}`, from, to, amount)
}

// --- Test Suites ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", "", "")

	rr := env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bank_ledger_http_requests_total")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice", model.RoleCustomer)

	t.Run("duplicate username", func(t *testing.T) {
		body := `{"username":"alice","email":"other@bank.test","password":"password123",
			"first_name":"A","last_name":"B","phone":"1"}`
		rr := env.do(t, http.MethodPost, "/register", "", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("self registration cannot choose a role", func(t *testing.T) {
		body := `{"username":"mallory","email":"mallory@bank.test","password":"password123",
			"first_name":"M","last_name":"X","phone":"1","role":"ADMIN"}`
		rr := env.do(t, http.MethodPost, "/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = env.do(t, http.MethodPost, "/login", "", `{"username":"mallory","password":"password123"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("registered users are customers", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/admin/customers", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		_, adminToken := env.registerAndLogin(t, "root", model.RoleAdmin)
		rr = env.do(t, http.MethodGet, "/api/admin/admins", adminToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var admins []model.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &admins))
		require.Len(t, admins, 1)
		assert.Equal(t, "root", admins[0].Username)

		rr = env.do(t, http.MethodGet, "/api/admin/customers", adminToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var customers []model.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customers))
		require.Len(t, customers, 1)
		assert.Equal(t, "alice", customers[0].Username)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/register", "", `{"username":"al","email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/login", "", `{"username":"alice","password":"wrongpassword"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/accounts/ACC0000000001", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/accounts/ACC0000000001", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.registerAndLogin(t, "admin", model.RoleAdmin)
	aliceID, aliceToken := env.registerAndLogin(t, "alice", model.RoleCustomer)
	_, bobToken := env.registerAndLogin(t, "bob", model.RoleCustomer)

	t.Run("customers cannot open accounts", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/accounts", aliceToken, fmt.Sprintf(`{"owner_id":%d,"account_type":"SAVINGS"}`, aliceID))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	savings := env.openAccount(t, adminToken, aliceID, "SAVINGS", "100.00")
	assert.Equal(t, "INR", savings.Currency)
	assert.Equal(t, model.AccountStatusActive, savings.Status)

	t.Run("owner unknown", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/accounts", adminToken, `{"owner_id":9999,"account_type":"SAVINGS"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("duplicate type is rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/accounts", adminToken, fmt.Sprintf(`{"owner_id":%d,"account_type":"savings"}`, aliceID))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("visibility", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/accounts/"+savings.AccountNumber, aliceToken, "").Code)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/accounts/"+savings.AccountNumber, adminToken, "").Code)
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/accounts/"+savings.AccountNumber, bobToken, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/accounts/ACC0000000000", adminToken, "").Code)
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/accounts", aliceToken, "").Code)

		rr := env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/accounts", aliceID), aliceToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var accounts []model.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accounts))
		assert.Len(t, accounts, 1)
	})

	t.Run("close needs zero balance", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/api/accounts/"+savings.AccountNumber+"/close", adminToken, "")
		assert.Equal(t, http.StatusConflict, rr.Code)
		rr = env.do(t, http.MethodDelete, "/api/accounts/"+savings.AccountNumber, adminToken, "")
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("status filter", func(t *testing.T) {
		current := env.openAccount(t, adminToken, aliceID, "CURRENT", "0")
		rr := env.do(t, http.MethodPut, "/api/accounts/"+current.AccountNumber+"/close", adminToken, "")
		require.Equal(t, http.StatusOK, rr.Code)

		rr = env.do(t, http.MethodGet, "/api/accounts?status=closed", adminToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var closed []model.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &closed))
		require.Len(t, closed, 1)
		assert.Equal(t, current.AccountNumber, closed[0].AccountNumber)

		rr = env.do(t, http.MethodDelete, "/api/accounts/"+current.AccountNumber, adminToken, "")
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("limit per owner", func(t *testing.T) {
		env.openAccount(t, adminToken, aliceID, "CURRENT", "0")
		rr := env.do(t, http.MethodPost, "/api/accounts", adminToken, fmt.Sprintf(`{"owner_id":%d,"account_type":"BUSINESS"}`, aliceID))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestTransferFlow(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.registerAndLogin(t, "admin", model.RoleAdmin)
	aliceID, aliceToken := env.registerAndLogin(t, "alice", model.RoleCustomer)
	bobID, bobToken := env.registerAndLogin(t, "bob", model.RoleCustomer)

	alice := env.openAccount(t, adminToken, aliceID, "SAVINGS", "1000.00")
	bob := env.openAccount(t, adminToken, bobID, "SAVINGS", "500.00")

	rr := env.do(t, http.MethodPost, "/api/transfers", aliceToken, transferBody(alice.AccountNumber, bob.AccountNumber, "200.00"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var result model.TransferResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, model.TransactionTypeTransferOut, result.Debit.TransactionType)
	assert.Equal(t, model.TransactionTypeTransferIn, result.Credit.TransactionType)
	assert.Equal(t, "Transferred to "+bob.AccountNumber, result.Debit.Description)

	assert.True(t, decimal.RequireFromString("800").Equal(env.balance(t, aliceToken, alice.AccountNumber)))
	assert.True(t, decimal.RequireFromString("700").Equal(env.balance(t, bobToken, bob.AccountNumber)))

	t.Run("history", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/accounts/"+bob.AccountNumber+"/transactions/received", bobToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var received []model.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &received))
		require.Len(t, received, 1)
		assert.Equal(t, "Received from "+alice.AccountNumber, received[0].Description)

		rr = env.do(t, http.MethodGet, "/api/accounts/"+alice.AccountNumber+"/transactions", bobToken, "")
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = env.do(t, http.MethodGet, "/api/admin/transactions", adminToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var all []model.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
		assert.Len(t, all, 2)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name   string
			token  string
			body   string
			status int
		}{
			{"not the owner", bobToken, transferBody(alice.AccountNumber, bob.AccountNumber, "1"), http.StatusForbidden},
			{"admin cannot move customer money", adminToken, transferBody(alice.AccountNumber, bob.AccountNumber, "1"), http.StatusForbidden},
			{"insufficient funds", aliceToken, transferBody(alice.AccountNumber, bob.AccountNumber, "800.01"), http.StatusBadRequest},
			{"zero amount", aliceToken, transferBody(alice.AccountNumber, bob.AccountNumber, "0"), http.StatusBadRequest},
			{"self transfer", aliceToken, transferBody(alice.AccountNumber, alice.AccountNumber, "1"), http.StatusBadRequest},
			{"missing source", aliceToken, transferBody("ACC0000000000", bob.AccountNumber, "1"), http.StatusNotFound},
			{"missing destination", aliceToken, transferBody(alice.AccountNumber, "ACC0000000000", "1"), http.StatusNotFound},
			{"unknown field", aliceToken, `{"from_account":"a","to_account":"b","amount":"1","memo":"x"}`, http.StatusBadRequest},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				rr := env.do(t, http.MethodPost, "/api/transfers", tc.token, tc.body)
				assert.Equal(t, tc.status, rr.Code, rr.Body.String())
			})
		}
		assert.True(t, decimal.RequireFromString("800").Equal(env.balance(t, aliceToken, alice.AccountNumber)))
		assert.True(t, decimal.RequireFromString("700").Equal(env.balance(t, bobToken, bob.AccountNumber)))
	})

	t.Run("idempotent replay", func(t *testing.T) {
		body := transferBody(alice.AccountNumber, bob.AccountNumber, "50.00")
		first := env.do(t, http.MethodPost, "/api/transfers", aliceToken, body, "Idempotency-Key", "transfer-1")
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

		second := env.do(t, http.MethodPost, "/api/transfers", aliceToken, body, "Idempotency-Key", "transfer-1")
		require.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())

		assert.True(t, decimal.RequireFromString("750").Equal(env.balance(t, aliceToken, alice.AccountNumber)))
	})

	t.Run("failed transfer releases its key", func(t *testing.T) {
		body := transferBody(alice.AccountNumber, bob.AccountNumber, "5000")
		rr := env.do(t, http.MethodPost, "/api/transfers", aliceToken, body, "Idempotency-Key", "transfer-2")
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, env.redis.Exists("idempotency:user:"+fmt.Sprint(aliceID)+":transfer-2"))

		rr = env.do(t, http.MethodPost, "/api/transfers", aliceToken, transferBody(alice.AccountNumber, bob.AccountNumber, "5"), "Idempotency-Key", "transfer-2")
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("in-flight key conflicts", func(t *testing.T) {
		require.NoError(t, env.redis.Set("idempotency:user:"+fmt.Sprint(aliceID)+":transfer-3", "__pending__"))
		rr := env.do(t, http.MethodPost, "/api/transfers", aliceToken, transferBody(alice.AccountNumber, bob.AccountNumber, "1"), "Idempotency-Key", "transfer-3")
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.registerAndLogin(t, "admin", model.RoleAdmin)
	aliceID, aliceToken := env.registerAndLogin(t, "alice", model.RoleCustomer)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/admin/users", aliceToken, "").Code)

	rr := env.do(t, http.MethodGet, "/api/admin/users", adminToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var users []model.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, rr.Body.String(), "password")

	path := fmt.Sprintf("/api/admin/users/%d", aliceID)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, path+"/status", adminToken, `{"status":"frozen"}`).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodPut, path+"/status", adminToken, `{"status":"inactive"}`).Code)
	rr = env.do(t, http.MethodPost, "/login", "", `{"username":"alice","password":"password123"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/password", aliceID), aliceToken, `{"password":"brand-new-pass"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, adminToken, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), adminToken, "").Code)
}

func TestBootstrapAdminRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)
	err := env.app.SeedAdmin(context.Background(), "admin", "admin@bank.test", "short")
	assert.ErrorIs(t, err, app.ErrWeakBootstrapPassword)

	exists, err := env.app.Users.UsernameExists(context.Background(), "admin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdminCreatesUsers(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.registerAndLogin(t, "admin", model.RoleAdmin)
	_, aliceToken := env.registerAndLogin(t, "alice", model.RoleCustomer)

	body := `{"username":"ops","email":"ops@bank.test","password":"password123",
		"first_name":"Ops","last_name":"Team","phone":"2","role":"admin"}`
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/admin/users", "", body).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/admin/users", aliceToken, body).Code)

	rr := env.do(t, http.MethodPost, "/api/admin/users", adminToken, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var ops model.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ops))
	assert.Equal(t, string(model.RoleAdmin), ops.Role)

	_, opsToken := env.login(t, "ops", "password123")
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/admin/users", opsToken, "").Code)

	t.Run("role is required", func(t *testing.T) {
		body := `{"username":"nobody","email":"nobody@bank.test","password":"password123",
			"first_name":"N","last_name":"B","phone":"3"}`
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/admin/users", adminToken, body).Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		body := `{"username":"nobody","email":"nobody@bank.test","password":"password123",
			"first_name":"N","last_name":"B","phone":"3","role":"auditor"}`
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/admin/users", adminToken, body).Code)
	})
}

func TestUserProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.registerAndLogin(t, "admin", model.RoleAdmin)
	aliceID, aliceToken := env.registerAndLogin(t, "alice", model.RoleCustomer)
	_, bobToken := env.registerAndLogin(t, "bob", model.RoleCustomer)
	path := fmt.Sprintf("/api/users/%d", aliceID)

	rr := env.do(t, http.MethodPut, path, aliceToken,
		`{"address_line1":"221B Baker St","city":"London","postal_code":"NW16XE","phone":"5550199"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var user model.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "221B Baker St", user.AddressLine1)
	assert.Equal(t, "London", user.City)
	assert.Equal(t, "5550199", user.Phone)
	assert.Equal(t, "Test", user.FirstName)

	rr = env.do(t, http.MethodGet, path, aliceToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"postal_code":"NW16XE"`)

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"admin may edit", adminToken, `{"state":"Greater London"}`, http.StatusOK},
		{"other customer may not", bobToken, `{"city":"Paris"}`, http.StatusForbidden},
		{"email already used", aliceToken, `{"email":"bob@bank.test"}`, http.StatusConflict},
		{"bad email", aliceToken, `{"email":"not-an-email"}`, http.StatusBadRequest},
		{"username is not editable", aliceToken, `{"username":"alice2"}`, http.StatusBadRequest},
		{"role is not editable", aliceToken, `{"role":"ADMIN"}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPut, path, tc.token, tc.body)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}

	rr = env.do(t, http.MethodPut, "/api/users/9999", adminToken, `{"city":"Nowhere"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAvailabilityChecks(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice", model.RoleCustomer)

	tests := []struct {
		path string
		want string
	}{
		{"/check-username/alice", `{"exists":true}`},
		{"/check-username/zed", `{"exists":false}`},
		{"/check-email/alice@bank.test", `{"exists":true}`},
		{"/check-email/zed@bank.test", `{"exists":false}`},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tc.path, "", "")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tc.want, rr.Body.String())
		})
	}
}
