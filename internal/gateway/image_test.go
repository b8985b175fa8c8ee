package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFromDataURL(t *testing.T) {
	img, err := ImageFromDataURL("data:image/jpeg;base64,aGVsbG8=")

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, []byte("hello"), img.Data)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", img.DataURL())
}

func TestImageFromDataURL_BareBase64(t *testing.T) {
	img, err := ImageFromDataURL(testImage.Base64())

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, testImage.Data, img.Data)
}

func TestImageFromDataURL_Invalid(t *testing.T) {
	for _, in := range []string{
		"data:image/png;base64",
		"data:image/png,plain-text",
		"!!!not-base64!!!",
		"",
	} {
		_, err := ImageFromDataURL(in)
		assert.Error(t, err, "input %q should be rejected", in)
	}
}

func TestImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.png")
	require.NoError(t, os.WriteFile(path, testImage.Data, 0o600))

	img, err := ImageFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, testImage.Data, img.Data)

	_, err = ImageFromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
