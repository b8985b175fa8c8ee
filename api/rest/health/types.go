package health

type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// answer of the deployment smoke test
type TestResponse struct {
	Message   string `json:"message"`
	App       string `json:"app"`
	KeyExists bool   `json:"keyExists"`
}
