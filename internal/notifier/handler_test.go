package notifier

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/moniflow/backend/internal/store"
)

func setupStore(t *testing.T) {
	t.Helper()
	require.NoError(t, store.Connect(filepath.Join(t.TempDir(), "notifier_test.db")))
	t.Cleanup(func() { store.Close() })
}

func newTestApp() *fiber.App {
	app := fiber.New()
	NewHandler().RegisterRoutes(app)
	return app
}

func TestCreateChannel_RejectsInvalidType(t *testing.T) {
	setupStore(t)
	app := newTestApp()

	req := httptest.NewRequest("POST", "/channels", bytes.NewBufferString(`{"name":"ops","type":"carrier-pigeon","config":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateAndListChannel(t *testing.T) {
	setupStore(t)
	app := newTestApp()

	req := httptest.NewRequest("POST", "/channels", bytes.NewBufferString(`{"name":"ops-discord","type":"discord","config":{"webhookUrl":"https://discord.example/hook"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	listReq := httptest.NewRequest("GET", "/channels", nil)
	listResp, err := app.Test(listReq)
	require.NoError(t, err)

	var channels []Channel
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&channels))
	require.Len(t, channels, 1)
	require.Equal(t, "ops-discord", channels[0].Name)
}

func TestToggleAndDeleteChannel(t *testing.T) {
	setupStore(t)
	app := newTestApp()

	createReq := httptest.NewRequest("POST", "/channels", bytes.NewBufferString(`{"name":"ops","type":"telegram","config":{"botToken":"t","chatId":"c"}}`))
	createReq.Header.Set("Content-Type", "application/json")
	createResp, err := app.Test(createReq)
	require.NoError(t, err)

	var created Channel
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	toggleReq := httptest.NewRequest("POST", "/channels/"+created.ID+"/toggle", nil)
	toggleResp, err := app.Test(toggleReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, toggleResp.StatusCode)

	deleteReq := httptest.NewRequest("DELETE", "/channels/"+created.ID, nil)
	deleteResp, err := app.Test(deleteReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, deleteResp.StatusCode)
}
