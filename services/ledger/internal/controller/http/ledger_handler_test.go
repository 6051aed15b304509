package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/pkg/logger"
	"pulse/services/ledger/internal/repo/memory"
	"pulse/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testVaultAddress = "pulse-ledger-vault"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type ledgerTestEnv struct {
	handler *LedgerHandler
	ledger  usecase.LedgerUseCase
	token   usecase.TokenUseCase
}

func newLedgerTestEnv(t *testing.T) *ledgerTestEnv {
	t.Helper()

	log := logger.New()
	token := usecase.NewTokenUseCase(memory.NewTokenRepository(), log)
	vault := usecase.NewTokenVault(token, testVaultAddress)
	ledger := usecase.NewLedgerUseCase(memory.NewLedgerRepository(), vault, nil, nil, log)

	return &ledgerTestEnv{
		handler: NewLedgerHandler(ledger, log),
		ledger:  ledger,
		token:   token,
	}
}

func (env *ledgerTestEnv) fundSubscriber(t *testing.T, subscriber string, balance, allowance int64) {
	t.Helper()
	ctx := context.Background()
	assert.NoError(t, env.token.Mint(ctx, subscriber, balance))
	assert.NoError(t, env.token.Approve(ctx, subscriber, testVaultAddress, allowance))
}

func authAs(userID string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	}
}

func TestRegisterCreatorHandler_Success(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.POST("/creators/register", authAs("0xcreator", env.handler.RegisterCreator))

	body := `{"initial_fee":10000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "0xcreator", response["address"])
	assert.Equal(t, float64(10000000), response["subscription_fee"])
	assert.Equal(t, true, response["registered"])
}

func TestRegisterCreatorHandler_Unauthorized(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.POST("/creators/register", env.handler.RegisterCreator)

	body := `{"initial_fee":10000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response["error"], "Unauthorized")
}

func TestRegisterCreatorHandler_Conflict(t *testing.T) {
	env := newLedgerTestEnv(t)

	_, err := env.ledger.RegisterCreator(context.Background(), "0xcreator", 10_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.POST("/creators/register", authAs("0xcreator", env.handler.RegisterCreator))

	body := `{"initial_fee":5000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterCreatorHandler_InvalidBody(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.POST("/creators/register", authAs("0xcreator", env.handler.RegisterCreator))

	// Zero fee fails the min=1 binding
	body := `{"initial_fee":0}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeHandler_Success(t *testing.T) {
	env := newLedgerTestEnv(t)

	_, err := env.ledger.RegisterCreator(context.Background(), "0xcreator", 10_000000)
	assert.NoError(t, err)
	env.fundSubscriber(t, "0xsubscriber", 1000_000000, 10_000000)

	router := setupTestRouter()
	router.POST("/subscriptions/:creator_address", authAs("0xsubscriber", env.handler.Subscribe))

	body := `{"amount":10000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/subscriptions/0xcreator", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "0xsubscriber", response["subscriber_address"])
	assert.Equal(t, "0xcreator", response["creator_address"])
	assert.Greater(t, response["expires_at"], float64(0))
}

func TestSubscribeHandler_UnknownCreator(t *testing.T) {
	env := newLedgerTestEnv(t)
	env.fundSubscriber(t, "0xsubscriber", 1000_000000, 10_000000)

	router := setupTestRouter()
	router.POST("/subscriptions/:creator_address", authAs("0xsubscriber", env.handler.Subscribe))

	body := `{"amount":10000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/subscriptions/0xnobody", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeHandler_PaymentRequired(t *testing.T) {
	env := newLedgerTestEnv(t)

	_, err := env.ledger.RegisterCreator(context.Background(), "0xcreator", 10_000000)
	assert.NoError(t, err)
	// Funded but no allowance granted to the vault

	router := setupTestRouter()
	router.POST("/subscriptions/:creator_address", authAs("0xsubscriber", env.handler.Subscribe))

	body := `{"amount":10000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/subscriptions/0xcreator", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestWithdrawHandler_Success(t *testing.T) {
	env := newLedgerTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterCreator(ctx, "0xcreator", 10_000000)
	assert.NoError(t, err)
	env.fundSubscriber(t, "0xsubscriber", 1000_000000, 10_000000)
	_, err = env.ledger.Subscribe(ctx, "0xsubscriber", "0xcreator", 10_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.POST("/creators/withdraw", authAs("0xcreator", env.handler.Withdraw))

	body := `{"amount":4000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/withdraw", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(6000000), response["earnings"])
	assert.Equal(t, float64(10000000), response["total_earnings"])
}

func TestWithdrawHandler_Overdraw(t *testing.T) {
	env := newLedgerTestEnv(t)

	_, err := env.ledger.RegisterCreator(context.Background(), "0xcreator", 10_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.POST("/creators/withdraw", authAs("0xcreator", env.handler.Withdraw))

	body := `{"amount":1000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/creators/withdraw", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestUpdateFeeHandler_Success(t *testing.T) {
	env := newLedgerTestEnv(t)

	_, err := env.ledger.RegisterCreator(context.Background(), "0xcreator", 10_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.PUT("/creators/fee", authAs("0xcreator", env.handler.UpdateFee))

	body := `{"new_fee":15000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/creators/fee", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(15000000), response["subscription_fee"])
}

func TestUpdateFeeHandler_NotRegistered(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.PUT("/creators/fee", authAs("0xnobody", env.handler.UpdateFee))

	body := `{"new_fee":15000000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/creators/fee", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCreatorHandler_NeverRegistered(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.GET("/creators/:creator_address", env.handler.GetCreator)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/creators/0xnobody", nil)

	router.ServeHTTP(w, req)

	// Zero record, not an error
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "0xnobody", response["address"])
	assert.Equal(t, false, response["registered"])
}

func TestListCreatorsHandler(t *testing.T) {
	env := newLedgerTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterCreator(ctx, "0xcreator1", 10_000000)
	assert.NoError(t, err)
	_, err = env.ledger.RegisterCreator(ctx, "0xcreator2", 5_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.GET("/creators", env.handler.ListCreators)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/creators", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(2), response["count"])
}

func TestSubscriptionStatusHandler(t *testing.T) {
	env := newLedgerTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterCreator(ctx, "0xcreator", 10_000000)
	assert.NoError(t, err)
	env.fundSubscriber(t, "0xsubscriber", 1000_000000, 10_000000)
	_, err = env.ledger.Subscribe(ctx, "0xsubscriber", "0xcreator", 10_000000)
	assert.NoError(t, err)

	router := setupTestRouter()
	router.GET("/subscriptions/:creator_address/status", authAs("0xsubscriber", env.handler.SubscriptionStatus))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/subscriptions/0xcreator/status", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response["active"])
	assert.Greater(t, response["expires_at"], float64(0))
}

func TestSubscriptionStatusHandler_Unauthorized(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.GET("/subscriptions/:creator_address/status", env.handler.SubscriptionStatus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/subscriptions/0xcreator/status", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetEntitlementHandler_NeverSubscribed(t *testing.T) {
	env := newLedgerTestEnv(t)

	router := setupTestRouter()
	router.GET("/entitlements/:subscriber/:creator_address", env.handler.GetEntitlement)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/entitlements/0xsubscriber/0xcreator", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, false, response["active"])
	assert.Equal(t, float64(0), response["expires_at"])
}
