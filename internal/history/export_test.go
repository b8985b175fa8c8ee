package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFilename(t *testing.T) {
	ts := time.UnixMilli(1735725600123)

	assert.Equal(t, "WHB_Prompt_abc123_1735725600123.txt", ExportFilename("abc123", ts))
	assert.Equal(t, "WHB_Prompt_current_1735725600123.txt", ExportFilename("", ts))
}

func TestExport_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	text := "cyberpunk alley, rain, neon --v 6.1 --stylize 300 --ar 16:9\n\n[NEGATIVE PROMPT] blurry, ✨ low-res\t"

	path, err := Export(dir, "id9", text, time.UnixMilli(1000))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "WHB_Prompt_id9_1000.txt"), path)

	got, err := ReadExport(path)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestReadExport_Missing(t *testing.T) {
	_, err := ReadExport(filepath.Join(t.TempDir(), "nope.txt"))

	assert.Error(t, err)
}
