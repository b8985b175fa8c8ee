package generate

import "codeberg.org/whbprompts/server/internal/gateway"

// image is raw base64 or a data URL
type Request struct {
	Image   string          `json:"image"`
	Options gateway.Options `json:"options"`
}

type Response struct {
	Prompt string `json:"prompt"`
}
