package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/gateway"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModel struct {
	prompt  string
	err     error
	calls   int
	image   gateway.Image
	options gateway.Options
}

func (m *mockModel) Generate(_ context.Context, image gateway.Image, opts gateway.Options) (string, error) {
	m.calls++
	m.image = image
	m.options = opts
	return m.prompt, m.err
}

func serve(t *testing.T, model gateway.Gateway, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api"), model)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHandler_Success(t *testing.T) {
	model := &mockModel{prompt: "sunlit meadow --v 6.1"}

	w := serve(t, model, `{"image":"data:image/jpeg;base64,/9j/4A==","options":{"midjourneyFormat":true,"colorPalette":true}}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sunlit meadow --v 6.1", resp.Prompt)
	assert.Equal(t, "image/jpeg", model.image.MIMEType)
	assert.Equal(t, gateway.Options{MidjourneyFormat: true, ColorPalette: true}, model.options)
}

func TestHandler_MissingImage(t *testing.T) {
	model := &mockModel{}

	w := serve(t, model, `{"options":{}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No image provided", resp.Message)
	assert.Equal(t, 0, model.calls)
}

func TestHandler_InvalidBody(t *testing.T) {
	model := &mockModel{}

	w := serve(t, model, `{"image":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, model.calls)
}

func TestHandler_InvalidImage(t *testing.T) {
	model := &mockModel{}

	w := serve(t, model, `{"image":"data:image/png;base64,!!!"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, model.calls)
}

func TestHandler_UpstreamFailure(t *testing.T) {
	model := &mockModel{err: assert.AnError}

	w := serve(t, model, `{"image":"aGVsbG8="}`)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.CodeGenerationFailed, resp.Error)
	assert.Equal(t, "generation failed", resp.Message)
}

func TestHandler_UpstreamTimeout(t *testing.T) {
	model := &mockModel{err: context.DeadlineExceeded}

	w := serve(t, model, `{"image":"aGVsbG8="}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
