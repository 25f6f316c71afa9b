package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext builds a *gin.Context with a JSON body for handler tests.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — binding rejects the request before any service
// is touched, so a zero-value handler is enough
// ============================================================================

func TestSendRegistrationCode_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing email", map[string]string{}},
		{"malformed email", map[string]string{"email": "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/send-registration-code", tt.body)

			handler.SendRegistrationCode(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp["error"], "Invalid request data")
		})
	}
}

func TestVerifyRegistrationCode_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	valid := map[string]string{
		"email":    "user@example.com",
		"code":     "123456",
		"username": "newuser",
		"password": "password123",
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing code", func(b map[string]string) { delete(b, "code") }},
		{"code too short", func(b map[string]string) { b["code"] = "12345" }},
		{"code too long", func(b map[string]string) { b["code"] = "1234567" }},
		{"code not numeric", func(b map[string]string) { b["code"] = "12a456" }},
		{"username too short", func(b map[string]string) { b["username"] = "ab" }},
		{"password too short", func(b map[string]string) { b["password"] = "12345" }},
		{"malformed email", func(b map[string]string) { b["email"] = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := make(map[string]string, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			tt.mutate(body)

			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-registration-code", body)

			handler.VerifyRegistrationCode(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVerifyPasswordResetCode_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{
			"missing new password",
			map[string]string{"email": "user@example.com", "code": "123456"},
		},
		{
			"code with spaces",
			map[string]string{"email": "user@example.com", "code": "123 56", "new_password": "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-password-reset-code", tt.body)

			handler.VerifyPasswordResetCode(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignIn_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	c, w := newTestGinContext(http.MethodPost, "/api/auth/signin", map[string]string{"email": "user@example.com"})

	handler.SignIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
