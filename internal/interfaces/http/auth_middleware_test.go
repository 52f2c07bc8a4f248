package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/invorya/stock-core/internal/interfaces/http"
	pkgjwt "github.com/invorya/stock-core/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del middleware de autenticación. Los tokens los emite el servicio de
// autenticación externo del panel; aquí solo se valida firma, expiración y la
// propagación de la identidad a los locals de Fiber.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Ana Torres"
	testIssuer    = "invorya-auth-test"
	testExpMin    = 60
)

// buildAuthTestApp aplicación Fiber mínima: AuthMiddleware + un handler que
// devuelve la identidad extraída del token.
func buildAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":   apphttp.GetUserID(c),
				"user_name": apphttp.GetUserName(c),
			})
		},
	)
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := buildAuthTestApp()

	resp := doRequest(t, app, validToken(t))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testUserID, out["user_id"], "el UserID del token llega a los locals")
	assert.Equal(t, testUserName, out["user_name"])
}

func TestAuthMiddleware_SinCabecera(t *testing.T) {
	app := buildAuthTestApp()

	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoIncorrecto(t *testing.T) {
	app := buildAuthTestApp()

	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildAuthTestApp()

	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testUserName, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildAuthTestApp()

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, testIssuer, -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
