package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"walletapp/internal/domain/models"
	"walletapp/internal/exchange"
	"walletapp/internal/handlers"
	"walletapp/internal/lib/jwt"
	"walletapp/internal/middlewares"
	"walletapp/internal/repository/memory"
	"walletapp/internal/routes"
	"walletapp/internal/services"
)

type memoryRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{store: make(map[string]string)}
}

func (r *memoryRedis) StoreRefreshToken(userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[refreshToken] = userID
	return nil
}

// stubRateServer converts every request at a fixed INR/USD rate of 0.012
// (and its inverse), mimicking the upstream response shape.
func stubRateServer() *httptest.Server {
	inrToUSD := decimal.RequireFromString("0.012")

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		rate := inrToUSD
		if from == "USD" && to == "INR" {
			rate = decimal.NewFromInt(1).Div(inrToUSD)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]map[string]decimal.Decimal{
			"rates": {to: amount.Mul(rate)},
		})
	}))
}

type testServer struct {
	server     *httptest.Server
	rateServer *httptest.Server
	storage    *memory.Storage
	jwtGen     *jwt.Generator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	storage := memory.NewStorage()
	redisStorage := newMemoryRedis()
	jwtGen := jwt.NewGenerator("secret", time.Minute, 24*time.Hour)
	rateServer := stubRateServer()
	rateClient := exchange.NewClient(rateServer.URL, rateServer.Client())

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	authService := services.NewAuthService(log, storage, redisStorage, jwtGen)
	transferService := services.NewTransferService(log, storage, storage, rateClient)
	historyService := services.NewHistoryService(log, storage)

	authHandler := handlers.NewAuthHandler(log, authService)
	walletHandler := handlers.NewWalletHandler(log, transferService)
	transferHandler := handlers.NewTransferHandler(log, transferService, historyService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)
	router := routes.InitRoutes(authHandler, walletHandler, transferHandler, authMiddleware)

	return &testServer{
		server:     httptest.NewServer(router),
		rateServer: rateServer,
		storage:    storage,
		jwtGen:     jwtGen,
	}
}

func (s *testServer) close() {
	s.server.Close()
	s.rateServer.Close()
}

func (s *testServer) url(path string) string {
	return s.server.URL + path
}

func (s *testServer) register(t *testing.T, name, email, password string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)

	resp, err := http.Post(s.url("/api/auth/register"), "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T, email, password string) (token string, refresh string) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(s.url("/api/auth/login"), "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	err = json.NewDecoder(resp.Body).Decode(&parsed)
	require.NoError(t, err)

	return parsed.Token, parsed.RefreshToken
}

func (s *testServer) signup(t *testing.T, name, email, password string) string {
	t.Helper()
	resp := s.register(t, name, email, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	token, _ := s.login(t, email, password)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) getJSON(t *testing.T, token, path string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func (s *testServer) transfer(t *testing.T, token string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, s.url("/api/transfer"), bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func (s *testServer) deposit(t *testing.T, email, amount, currency string) {
	t.Helper()
	user, err := s.storage.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	money, err := models.NewMoney(decimal.RequireFromString(amount), currency)
	require.NoError(t, err)
	require.NoError(t, s.storage.Deposit(context.Background(), user.ID, money))
}

func TestRegisterLoginWalletFlow(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	resp := srv.register(t, "alice", "alice@example.com", "password123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = srv.register(t, "alice again", "alice@example.com", "password123")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	token, refresh := srv.login(t, "alice@example.com", "password123")
	require.NotEmpty(t, token)
	require.NotEmpty(t, refresh)

	walletResp, body := srv.getJSON(t, token, "/api/wallet")
	require.Equal(t, http.StatusOK, walletResp.StatusCode)
	data := body["data"].(map[string]any)
	require.Equal(t, "0", data["balance"])
	require.Equal(t, "0", data["usd_balance"])
}

func TestUnauthorizedAccessIsRejected(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	resp, _ := srv.getJSON(t, "", "/api/wallet")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = srv.getJSON(t, "not-a-jwt", "/api/transactions")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCrossCurrencyTransferFlow(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	aliceToken := srv.signup(t, "alice", "alice@example.com", "password123")
	bobToken := srv.signup(t, "bob", "bob@example.com", "password456")
	srv.deposit(t, "alice@example.com", "1000.00", "INR")

	resp, body := srv.transfer(t, aliceToken, map[string]any{
		"receiver_email": "bob@example.com",
		"amount":         "250.50",
		"from_currency":  "INR",
		"to_currency":    "USD",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Transfer successfully.", body["message"])

	// 250.50 * 0.012 = 3.006, truncated to 3.00
	_, aliceWallet := srv.getJSON(t, aliceToken, "/api/wallet")
	require.Equal(t, "749.5", aliceWallet["data"].(map[string]any)["balance"])

	_, bobWallet := srv.getJSON(t, bobToken, "/api/wallet")
	require.Equal(t, "3", bobWallet["data"].(map[string]any)["usd_balance"])
	require.Equal(t, "0", bobWallet["data"].(map[string]any)["balance"])

	// both legs appear in the history, filterable by direction
	_, history := srv.getJSON(t, aliceToken, "/api/transactions")
	historyData := history["data"].(map[string]any)
	require.EqualValues(t, 2, historyData["total"])

	_, sentOnly := srv.getJSON(t, aliceToken, "/api/transactions?type=sent")
	sentData := sentOnly["data"].(map[string]any)
	require.EqualValues(t, 1, sentData["total"])
	items := sentData["transactions"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	require.Equal(t, "SENT", item["type"])
	require.Equal(t, "250.5", item["amount"])
	require.Equal(t, "alice", item["sender"].(map[string]any)["name"])
	require.Equal(t, "bob@example.com", item["receiver"].(map[string]any)["email"])
}

func TestTransferFailuresDoNotMoveMoney(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	aliceToken := srv.signup(t, "alice", "alice@example.com", "password123")
	srv.signup(t, "bob", "bob@example.com", "password456")
	srv.deposit(t, "alice@example.com", "100.00", "INR")

	resp, body := srv.transfer(t, aliceToken, map[string]any{
		"receiver_email": "bob@example.com",
		"amount":         "500.00",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Insufficient INR balance.", body["message"])

	resp, body = srv.transfer(t, aliceToken, map[string]any{
		"receiver_email": "nobody@example.com",
		"amount":         "10.00",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Receiver not found", body["message"])

	resp, body = srv.transfer(t, aliceToken, map[string]any{
		"receiver_email": "alice@example.com",
		"amount":         "10.00",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cannot transfer to yourself.", body["message"])

	_, wallet := srv.getJSON(t, aliceToken, "/api/wallet")
	require.Equal(t, "100", wallet["data"].(map[string]any)["balance"])

	_, history := srv.getJSON(t, aliceToken, "/api/transactions")
	require.EqualValues(t, 0, history["data"].(map[string]any)["total"])
}
