package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/loan-manager/pkg/errors"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedError  string
	}{
		{"not found", customError.WrapLoanNotFound("42"), http.StatusNotFound, customError.ErrCodeLoanNotFound, "Loan with ID 42 not found"},
		{"conflict", customError.WrapTaxIDAlreadyExists("111"), http.StatusConflict, customError.ErrCodeTaxIDAlreadyExists, ""},
		{"invalid", customError.WrapInvalidRequest("bad date"), http.StatusBadRequest, customError.ErrCodeValidation, "bad date"},
		{"database", customError.WrapDatabaseError(assert.AnError), http.StatusInternalServerError, customError.ErrCodeDatabaseError, "database operation failed"},
		{"plain error", assert.AnError, http.StatusInternalServerError, "", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			FromError(w, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decodeError(t, w)
	assert.Equal(t, "internal server error", resp.Error)
}

func TestRouteNotFound(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/loans", func(w http.ResponseWriter, r *http.Request) {
		Success(w, []string{})
	}).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(RouteNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lones", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "route GET /api/v1/lones not found", resp.Error)
}
