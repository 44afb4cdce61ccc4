package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"StockTiming/internal/domain/models"
)

type advisorReply struct {
	Action     string      `json:"action"`
	Confidence json.Number `json:"confidence"`
	Reasoning  string      `json:"reasoning"`
}

// ParseReply parses the model's free-form content into a decision. A reply
// that is not JSON, or lacks a recognizable action, is an error; the caller
// must fall back to the rule cascade rather than default silently.
func ParseReply(content string) (models.Decision, error) {
	var reply advisorReply
	if err := json.Unmarshal([]byte(stripFences(content)), &reply); err != nil {
		return models.Decision{}, fmt.Errorf("malformed advisor reply: %w", err)
	}

	action := models.Action(strings.ToLower(strings.TrimSpace(reply.Action)))
	if !action.Valid() {
		return models.Decision{}, fmt.Errorf("advisor reply missing action: %q", reply.Action)
	}

	confidence := 50
	if f, err := reply.Confidence.Float64(); err == nil {
		confidence = int(f)
	}
	if confidence < 30 {
		confidence = 30
	}
	if confidence > 95 {
		confidence = 95
	}

	reasoning := reply.Reasoning
	if reasoning == "" {
		reasoning = "AI pattern analysis"
	}

	return models.Decision{Action: action, Confidence: confidence, Reasoning: reasoning}, nil
}
