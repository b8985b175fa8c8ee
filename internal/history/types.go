package history

// one generated prompt; stored as {"id","imageUrl","prompt","timestamp"}
type Entry struct {
	ID        string `json:"id"`
	ImageURL  string `json:"imageUrl"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// copies raw text to the system clipboard
type Clipboard interface {
	WriteText(text string) error
}
