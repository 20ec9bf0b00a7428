package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func TestBadRequest_Envelope(t *testing.T) {
	c, w := newTestContext(http.MethodPatch, "/workspaces/1")

	BadRequest(c, "Only workspace owner can update it")

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.True(t, c.IsAborted())

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, http.StatusBadRequest, body.StatusCode)
	require.Equal(t, ErrCodeInvalidInput, body.Code)
	require.Equal(t, "/workspaces/1", body.Path)
	require.Equal(t, http.MethodPatch, body.Method)
	require.Equal(t, []string{"Only workspace owner can update it"}, body.Message)
	require.False(t, body.Timestamp.IsZero())
}

func TestInternalError_HidesDetails(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/task")

	InternalError(c, stderrors.New("dial tcp 10.0.0.3:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection refused")

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, []string{"Internal server error"}, body.Message)
}

func TestValidationMessages(t *testing.T) {
	RegisterJSONFieldNames()

	type request struct {
		Title    string `json:"title" binding:"required,max=5"`
		Email    string `json:"email" binding:"required,email"`
		Priority string `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	}

	err := binding.Validator.ValidateStruct(&request{Title: "too long title", Email: "nope", Priority: "URGENT"})
	require.Error(t, err)

	messages := ValidationMessages(err)
	require.ElementsMatch(t, []string{
		"title must be at most 5 characters",
		"email must be a valid email address",
		"priority must be one of: LOW, MEDIUM, HIGH",
	}, messages)
}

func TestValidationMessages_NonValidationError(t *testing.T) {
	require.Equal(t, []string{"Invalid request body"}, ValidationMessages(stderrors.New("unexpected EOF")))
}
