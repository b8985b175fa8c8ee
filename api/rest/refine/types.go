package refine

type Request struct {
	Prompt      string `json:"prompt" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
}

type Response struct {
	Prompt string `json:"prompt"`
}
