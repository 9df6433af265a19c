package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"/health", "/health"},
		{"/api/accounts/ACC0000000042", "/api/accounts/:account"},
		{"/api/accounts/ACC0000000042/transactions", "/api/accounts/:account/transactions"},
		{"/api/users/17/accounts", "/api/users/:id/accounts"},
		{"/api/accounts/ACCOUNT", "/api/accounts/ACCOUNT"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalPath(tc.in), tc.in)
	}
}

func TestInstrumentHandler_CountsRequests(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/users/:id", "418"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/9", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/users/:id", "418")))
}

func TestRecordTransfer(t *testing.T) {
	before := testutil.ToFloat64(transfers.WithLabelValues("success"))
	RecordTransfer("success", 0)
	RecordTransfer("", time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(transfers.WithLabelValues("success")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(transfers.WithLabelValues("unknown")), 1.0)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordAccountEvent("open", "success")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bank_ledger_accounts_lifecycle_events_total")
}
