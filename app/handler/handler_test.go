package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"etfpanel/app/middleware"
	m "etfpanel/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key"

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	middleware.SetupMiddleware(app, middleware.Config{AllowOrigins: "*"})
	return app
}

func sendRequest(t *testing.T, app *fiber.App, method, url string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// signedIn registers alice in a fresh user store and returns a token for her.
func signedIn(t *testing.T) (*AuthHandler, *UserStoreMock, string) {
	t.Helper()
	store := newUserStoreMock(&m.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	auth := NewAuthHandler(store, store, testKey, time.Hour)
	token, _, err := auth.issueToken(store.users[1])
	require.NoError(t, err)
	return auth, store, token
}
