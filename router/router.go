package router

import (
	"net/http"

	"go-bank-ledger/handler"
	"go-bank-ledger/metrics"
	"go-bank-ledger/service"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers bundles everything NewRouter mounts.
type Handlers struct {
	Users        *handler.UserHandler
	Accounts     *handler.AccountHandler
	Transactions *handler.TransactionHandler
	Health       *handler.HealthHandler
	Tokens       handler.TokenParser
	Policy       *service.AccessPolicy
	// RateLimiter guards the unauthenticated endpoints; nil disables it.
	RateLimiter *handler.RateLimiter
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	public := func(next http.Handler) http.Handler { return next }
	if h.RateLimiter != nil {
		public = h.RateLimiter.Middleware
	}
	auth := handler.AuthMiddleware(h.Tokens)
	admin := func(next http.Handler) http.Handler {
		return auth(handler.AdminMiddleware(h.Policy)(next))
	}
	wrap := handler.ErrorHandlingMiddleware

	mux.Handle("POST /register", public(wrap(h.Users.Register)))
	mux.Handle("POST /login", public(wrap(h.Users.Login)))
	mux.Handle("GET /check-username/{username}", public(wrap(h.Users.CheckUsername)))
	mux.Handle("GET /check-email/{email}", public(wrap(h.Users.CheckEmail)))

	mux.Handle("GET /api/users/{userId}", auth(wrap(h.Users.GetUser)))
	mux.Handle("PUT /api/users/{userId}", auth(wrap(h.Users.UpdateUser)))
	mux.Handle("GET /api/users/{userId}/accounts", auth(wrap(h.Users.ListUserAccounts)))
	mux.Handle("PUT /api/users/{userId}/password", auth(wrap(h.Users.UpdatePassword)))

	mux.Handle("GET /api/admin/users", admin(wrap(h.Users.ListUsers)))
	mux.Handle("POST /api/admin/users", admin(wrap(h.Users.CreateUser)))
	mux.Handle("GET /api/admin/customers", admin(wrap(h.Users.ListCustomers)))
	mux.Handle("GET /api/admin/admins", admin(wrap(h.Users.ListAdmins)))
	mux.Handle("PUT /api/admin/users/{userId}/status", admin(wrap(h.Users.UpdateUserStatus)))
	mux.Handle("DELETE /api/admin/users/{userId}", admin(wrap(h.Users.DeleteUser)))
	mux.Handle("GET /api/admin/transactions", admin(wrap(h.Transactions.ListAllTransactions)))

	mux.Handle("POST /api/accounts", admin(wrap(h.Accounts.OpenAccount)))
	mux.Handle("GET /api/accounts", admin(wrap(h.Accounts.ListAccounts)))
	mux.Handle("GET /api/accounts/{accountNumber}", auth(wrap(h.Accounts.GetAccount)))
	mux.Handle("PUT /api/accounts/{accountNumber}/status", admin(wrap(h.Accounts.UpdateAccountStatus)))
	mux.Handle("PUT /api/accounts/{accountNumber}/close", admin(wrap(h.Accounts.CloseAccount)))
	mux.Handle("DELETE /api/accounts/{accountNumber}", admin(wrap(h.Accounts.DeleteAccount)))

	mux.Handle("GET /api/accounts/{accountNumber}/transactions", auth(wrap(h.Transactions.ListTransactionsForAccount)))
	mux.Handle("GET /api/accounts/{accountNumber}/transactions/received", auth(wrap(h.Transactions.ListReceivedForAccount)))
	mux.Handle("POST /api/transfers", auth(wrap(h.Transactions.CreateTransfer)))

	return metrics.InstrumentHandler(handler.RequestIDMiddleware(handler.LoggingMiddleware(mux)))
}
