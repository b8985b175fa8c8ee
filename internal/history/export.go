package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// returns WHB_Prompt_<id>_<unix millis>.txt
func ExportFilename(id string, t time.Time) string {
	if id == "" {
		id = "current"
	}

	return fmt.Sprintf("WHB_Prompt_%s_%d.txt", id, t.UnixMilli())
}

// writes exactly the prompt text into dir and returns the file path
func Export(dir, id, text string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(id, t))

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to export prompt: %w", err)
	}

	return path, nil
}

// reads an exported prompt back
func ReadExport(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read export: %w", err)
	}

	return string(data), nil
}
