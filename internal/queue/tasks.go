package queue

const (
	TypeSpeechSynthesize = "speech:synthesize"
)

// SpeechSynthesizePayload carries one validated synthesis request to the
// worker, which runs it through the same service as the API to warm the
// result cache.
type SpeechSynthesizePayload struct {
	RequestID string  `json:"request_id"`
	Text      string  `json:"text"`
	Voice     string  `json:"voice"`
	Language  string  `json:"language,omitempty"`
	Model     string  `json:"model"`
	Speed     float64 `json:"speed"`
	Format    string  `json:"format"`
}
