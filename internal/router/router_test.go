package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/auth"
	"github.com/AldairAG/PayGlobal/internal/database"
	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/repository"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test"},
		Auth:   config.AuthConfig{OperatorSecret: "s3cret", Issuer: "payglobal", TokenExpiry: time.Hour},
	}
	log := zap.NewNop()
	plan := service.DefaultPlan()
	store := repository.NewStore(db)
	locker := lock.NewLocal()
	commissions := service.NewCommissionService(store, plan, log)

	engine := Setup(cfg, db, Services{
		Users:          service.NewUserService(store, log),
		Network:        service.NewNetworkService(store, plan),
		Licenses:       service.NewLicenseService(store, plan, commissions, log),
		Wallets:        service.NewWalletService(store, log),
		Journal:        service.NewJournalService(store, log),
		PassiveIncome:  service.NewPassiveIncomeBatch(store, plan, commissions, locker, time.Minute, log),
		RankAssignment: service.NewRankAssignmentBatch(store, plan, locker, time.Minute, log),
	}, log)

	token, err := auth.GenerateOperatorToken(&cfg.Auth, "ops")
	require.NoError(t, err)
	return &testServer{t: t, engine: engine, token: token}
}

func (s *testServer) do(method, path string, body any, operator bool) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if operator {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (s *testServer) register(username, referrer string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/v1/users", map[string]string{"username": username, "referrer": referrer}, false)
	require.Equal(s.t, http.StatusCreated, code, "%v", body)
}

func walletBalance(t *testing.T, body map[string]any, kind string) string {
	t.Helper()
	for _, raw := range body["wallets"].([]any) {
		w := raw.(map[string]any)
		if w["kind"] == kind {
			return w["balance"].(string)
		}
	}
	t.Fatalf("no %s wallet in %v", kind, body)
	return ""
}

func TestRegisterPurchaseAndNetwork(t *testing.T) {
	s := newTestServer(t)
	s.register("a", "")
	s.register("b", "a")
	s.register("c", "b")

	code, body := s.do(http.MethodPost, "/api/v1/users", map[string]string{"username": "a"}, false)
	assert.Equal(t, http.StatusConflict, code, "%v", body)
	code, _ = s.do(http.MethodPost, "/api/v1/users", map[string]string{"username": "d", "referrer": "ghost"}, false)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(http.MethodPost, "/api/v1/users/c/licenses", map[string]string{"value": "1000"}, false)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	assert.Len(t, body["payouts"], 2)

	code, _ = s.do(http.MethodPost, "/api/v1/users/c/licenses", map[string]string{"value": "1234"}, false)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, "/api/v1/users/c/licenses", map[string]string{"value": "500"}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = s.do(http.MethodGet, "/api/v1/users/b/wallets", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "70", walletBalance(t, body, "COMMISSIONS"))

	code, body = s.do(http.MethodGet, "/api/v1/users/c/upline", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["upline"], 2)
	code, _ = s.do(http.MethodGet, "/api/v1/users/c/upline?depth=-2", nil, false)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(http.MethodGet, "/api/v1/users/a/network", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["total"])

	code, _ = s.do(http.MethodPatch, "/api/v1/users/a/referrer", map[string]string{"referrer": "c"}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = s.do(http.MethodGet, "/api/v1/users/a/transactions?concept=INDIRECT_REGISTRATION_BONUS", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])
	code, _ = s.do(http.MethodGet, "/api/v1/users/a/transactions?from=yesterday", nil, false)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWithdrawalNeedsOperator(t *testing.T) {
	s := newTestServer(t)
	s.register("a", "")
	s.register("b", "a")
	_, _ = s.do(http.MethodPost, "/api/v1/users/b/licenses", map[string]string{"value": "1000"}, false)

	code, body := s.do(http.MethodPost, "/api/v1/users/a/withdrawals",
		map[string]string{"wallet": "COMMISSIONS", "amount": "100", "address": "addr"}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, code, "%v", body)

	code, body = s.do(http.MethodPost, "/api/v1/users/a/withdrawals",
		map[string]string{"wallet": "COMMISSIONS", "amount": "50", "address": "addr"}, false)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	ref := body["reference"].(string)

	code, _ = s.do(http.MethodPost, "/api/v1/withdrawals/"+ref+"/reject", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/api/v1/withdrawals/"+ref+"/reject", nil, true)
	require.Equal(t, http.StatusOK, code, "%v", body)
	assert.Equal(t, "REJECTED", body["status"])

	code, _ = s.do(http.MethodPost, "/api/v1/withdrawals/"+ref+"/approve", nil, true)
	assert.Equal(t, http.StatusConflict, code)

	_, body = s.do(http.MethodGet, "/api/v1/users/a/wallets", nil, false)
	assert.Equal(t, "70", walletBalance(t, body, "COMMISSIONS"))

	code, body = s.do(http.MethodGet, "/api/v1/admin/audit-logs?action=withdrawal.rejected", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])
}

func TestOperatorRunsBatches(t *testing.T) {
	s := newTestServer(t)
	s.register("a", "")
	s.register("b", "a")
	_, _ = s.do(http.MethodPost, "/api/v1/users/b/licenses", map[string]string{"value": "5000"}, false)

	code, body := s.do(http.MethodPost, "/api/v1/admin/batches/passive_income/run?date=2026-03-02", nil, true)
	require.Equal(t, http.StatusOK, code, "%v", body)
	assert.EqualValues(t, 0, body["failed"])

	code, body = s.do(http.MethodGet, "/api/v1/admin/batches/passive_income/runs/2026-03-02", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["processed"])

	_, body = s.do(http.MethodGet, "/api/v1/users/b/wallets", nil, false)
	assert.Equal(t, "25", walletBalance(t, body, "DIVIDENDS"))

	code, _ = s.do(http.MethodPost, "/api/v1/admin/batches/rank_assignment/run", nil, true)
	require.Equal(t, http.StatusOK, code)
	_, body = s.do(http.MethodGet, "/api/v1/users/a", nil, false)
	assert.EqualValues(t, 1, body["rank"])

	code, _ = s.do(http.MethodPost, "/api/v1/admin/batches/unknown/run", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodPost, "/api/v1/admin/batches/passive_income/run?date=03-02-2026", nil, true)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodGet, "/api/v1/admin/batches/passive_income/runs/2020-01-01", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
