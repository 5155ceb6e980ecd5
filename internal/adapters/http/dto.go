package http

import "github.com/rty-renty/SuanMing/internal/domain"

// DivinationRequest is the JSON body accepted by POST /v1/divination.
type DivinationRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// DivinationResponse is the JSON shape returned by POST /v1/divination.
type DivinationResponse struct {
	Fortune FortuneResp `json:"fortune"`
	Meta    MetaResp    `json:"meta"`
}

type FortuneResp struct {
	SpiritRoot    string `json:"spirit_root"`
	Realm         string `json:"realm"`
	Element       string `json:"element"`
	Poem          string `json:"poem"`
	Analysis      string `json:"analysis"`
	LuckyArtifact string `json:"lucky_artifact"`
}

type MetaResp struct {
	Source    domain.Source `json:"source"`
	Model     string        `json:"model,omitempty"`
	RequestID string        `json:"request_id"`
	LatencyMS int64         `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
