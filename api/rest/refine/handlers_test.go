package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRefiner struct {
	err         error
	prompt      string
	instruction string
}

func (m *mockRefiner) Refine(_ context.Context, prompt, instruction string) (string, error) {
	m.prompt = prompt
	m.instruction = instruction
	if m.err != nil {
		return "", m.err
	}
	return prompt + ", at night", nil
}

func serve(t *testing.T, refiner llm.Refiner, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), refiner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHandler_Success(t *testing.T) {
	refiner := &mockRefiner{}

	w := serve(t, refiner, `{"prompt":"city skyline","instruction":"make it night"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "city skyline, at night", resp.Prompt)
	assert.Equal(t, "make it night", refiner.instruction)
}

func TestHandler_MissingFields(t *testing.T) {
	w := serve(t, &mockRefiner{}, `{"prompt":"city skyline"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.CodeValidationError, resp.Error)
}

func TestHandler_UpstreamFailure(t *testing.T) {
	w := serve(t, &mockRefiner{err: &llm.APIError{StatusCode: 500, Message: "internal"}}, `{"prompt":"a","instruction":"b"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
