package advisor

import (
	"testing"

	"StockTiming/internal/domain/models"
)

func TestParseReplyOK(t *testing.T) {
	d, err := ParseReply(`{"action": "BUY", "confidence": 82, "reasoning": "breakout"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != models.ActionBuy || d.Confidence != 82 || d.Reasoning != "breakout" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestParseReplyFenced(t *testing.T) {
	d, err := ParseReply("```json\n{\"action\": \"sell\", \"confidence\": 70, \"reasoning\": \"r\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != models.ActionSell {
		t.Fatalf("unexpected action %v", d.Action)
	}
}

func TestParseReplyClampsConfidence(t *testing.T) {
	d, err := ParseReply(`{"action": "hold", "confidence": 120, "reasoning": "r"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Confidence != 95 {
		t.Fatalf("expected clamp to 95, got %d", d.Confidence)
	}

	d, err = ParseReply(`{"action": "hold", "confidence": 5, "reasoning": "r"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Confidence != 30 {
		t.Fatalf("expected clamp to 30, got %d", d.Confidence)
	}
}

func TestParseReplyMalformed(t *testing.T) {
	if _, err := ParseReply("the market looks bullish today"); err == nil {
		t.Fatalf("expected error for non-JSON reply")
	}
}

func TestParseReplyMissingAction(t *testing.T) {
	if _, err := ParseReply(`{"confidence": 80, "reasoning": "r"}`); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if _, err := ParseReply(`{"action": "yolo", "confidence": 80}`); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestParseReplyDefaultReasoning(t *testing.T) {
	d, err := ParseReply(`{"action": "buy", "confidence": 60}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Reasoning != "AI pattern analysis" {
		t.Fatalf("unexpected reasoning %q", d.Reasoning)
	}
}
