package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func newApp(auth Authenticator) *fiber.App {
	log, _ := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": c.Locals("user_name")})
	})
	app.Get("/admin", RequireAuth(auth), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation does not exist")
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) errorBody {
	t.Helper()
	var payload struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload.Error
}

func TestRequireAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	app := newApp(&mockAuthenticator{})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperr.KindAuth, decodeError(t, resp.Body).Code)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthStoresSession(t *testing.T) {
	auth := &mockAuthenticator{}
	sess := &session.Session{ID: "s1", UserID: "u1", Profile: model.UserProfile{DisplayName: "Ana", Role: model.RoleUser}}
	auth.On("Authenticate", mock.Anything, "good").Return(sess, nil)
	auth.On("Authenticate", mock.Anything, "stale").Return(nil, apperr.Auth("session expired"))
	app := newApp(auth)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Ana", body["user"])

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "session expired", decodeError(t, resp.Body).Message)

	auth.AssertExpectations(t)
}

func TestRequireAdmin(t *testing.T) {
	auth := &mockAuthenticator{}
	auth.On("Authenticate", mock.Anything, "user").Return(&session.Session{UserID: "u1", Profile: model.UserProfile{Role: model.RoleUser}}, nil)
	auth.On("Authenticate", mock.Anything, "admin").Return(&session.Session{UserID: "u2", Profile: model.UserProfile{Role: model.RoleAdmin}}, nil)
	app := newApp(auth)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer user")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperr.KindPermissionDenied, decodeError(t, resp.Body).Code)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := newApp(&mockAuthenticator{})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp.Body)
	assert.Equal(t, apperr.KindInternal, body.Code)
	assert.Equal(t, "Internal Server Error", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperr.KindNotFound, decodeError(t, resp.Body).Code)
}
