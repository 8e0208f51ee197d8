package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/roleassign/internal/api/response"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	response.Success(w, http.StatusCreated, map[string]string{"message": "ok"}, "req-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := decode(t, w)
	assert.Nil(t, env["error"])
	assert.Equal(t, "ok", env["data"].(map[string]interface{})["message"])

	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, "req-1", meta["requestId"])
	_, err := time.Parse(time.RFC3339, meta["timestamp"].(string))
	assert.NoError(t, err)
}

func TestSuccessList(t *testing.T) {
	w := httptest.NewRecorder()

	response.SuccessList(w, http.StatusOK, []string{"a", "b"}, 2, "req-2")

	env := decode(t, w)
	assert.Len(t, env["data"], 2)
	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total"])
	assert.Equal(t, "req-2", meta["requestId"])
}

func TestErrWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
		[]map[string]string{{"field": "email", "message": "email is required"}}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Nil(t, env["data"])

	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Len(t, errObj["details"], 1)

	meta := env["meta"].(map[string]interface{})
	assert.NotEmpty(t, meta["requestId"], "a request id is generated when none is given")
}

func TestErr_OmitsDetails(t *testing.T) {
	w := httptest.NewRecorder()

	response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", "req-3")

	errObj := decode(t, w)["error"].(map[string]interface{})
	_, hasDetails := errObj["details"]
	assert.False(t, hasDetails)
}

func TestFail(t *testing.T) {
	w := httptest.NewRecorder()

	response.Fail(w, http.StatusForbidden, &response.Error{Code: "FORBIDDEN", Message: "Staff access required"}, "req-4")

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decode(t, w)
	assert.Nil(t, env["data"])
	assert.Equal(t, "FORBIDDEN", env["error"].(map[string]interface{})["code"])
	assert.Equal(t, "req-4", env["meta"].(map[string]interface{})["requestId"])
}
