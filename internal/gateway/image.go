package gateway

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// binary image payload with its MIME type
type Image struct {
	Data     []byte
	MIMEType string
}

// reads an image file, sniffing its MIME type
func ImageFromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}

	if len(data) == 0 {
		return Image{}, fmt.Errorf("image %s is empty", path)
	}

	return Image{Data: data, MIMEType: http.DetectContentType(data)}, nil
}

// parses "data:<mime>;base64,<payload>"; bare base64 is accepted and sniffed
func ImageFromDataURL(s string) (Image, error) {
	payload := s
	mimeType := ""

	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok {
			return Image{}, fmt.Errorf("invalid data url: missing payload")
		}

		meta := strings.TrimPrefix(header, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return Image{}, fmt.Errorf("invalid data url: only base64 payloads are supported")
		}

		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("invalid image encoding: %w", err)
	}

	if len(data) == 0 {
		return Image{}, fmt.Errorf("image is empty")
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return Image{Data: data, MIMEType: mimeType}, nil
}

// base64 payload without a data url header
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// "data:<mime>;base64,<payload>", the form stored in history entries
func (i Image) DataURL() string {
	mimeType := i.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return "data:" + mimeType + ";base64," + i.Base64()
}
