package utils

import (
	"strings"
	"testing"
)

func TestExtractJSONObjectFenced(t *testing.T) {
	reply := "Here is the analysis:\n```json\n{\"action\": \"BUY\"}\n```\nGood luck."
	got := ExtractJSONObject(reply)
	if got != `{"action": "BUY"}` {
		t.Errorf("Expected fenced object, got %q", got)
	}
}

func TestExtractJSONObjectBalanced(t *testing.T) {
	reply := `Sure! {"outer": {"inner": 1}, "note": "has } inside string"} trailing text`
	got := ExtractJSONObject(reply)
	if got != `{"outer": {"inner": 1}, "note": "has } inside string"}` {
		t.Errorf("Balanced extraction failed, got %q", got)
	}
}

func TestExtractJSONObjectNone(t *testing.T) {
	if got := ExtractJSONObject("no json here"); got != "" {
		t.Errorf("Expected empty result, got %q", got)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var out struct {
		Action string `json:"action"`
		Score  int    `json:"score"`
	}
	reply := "```json\n{\"action\": \"HOLD\", \"score\": 70}\n```"
	if err := DecodeModelJSON(reply, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Action != "HOLD" || out.Score != 70 {
		t.Errorf("Expected HOLD/70, got %s/%d", out.Action, out.Score)
	}
}

func TestDecodeModelJSONRepairsSloppyOutput(t *testing.T) {
	// Single quotes and a trailing comma: the repair chain should cope.
	var out map[string]interface{}
	reply := "{'action': 'SELL', 'score': 20,}"
	if err := DecodeModelJSON(reply, &out); err != nil {
		t.Fatalf("expected repair to succeed, got %v", err)
	}
	if out["action"] != "SELL" {
		t.Errorf("Expected SELL, got %v", out["action"])
	}
}

func TestDecodeModelJSONErrorTruncatesRaw(t *testing.T) {
	var out map[string]interface{}
	raw := "complete garbage " + strings.Repeat("x", 1000)
	err := DecodeModelJSON(raw, &out)
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if len([]rune(err.Error())) > 600 {
		t.Errorf("error message not truncated: %d runes", len([]rune(err.Error())))
	}
}

func TestCleanMarkdownStripsFence(t *testing.T) {
	if got := CleanMarkdown("```markdown\n# Title\n```"); got != "# Title" {
		t.Errorf("Expected stripped markdown, got %q", got)
	}
	if got := CleanMarkdown("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("Expected stripped json fence, got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("Short string should pass through, got %q", got)
	}
	got := TruncateRunes(strings.Repeat("a", 600), 500)
	if len([]rune(got)) != 503 { // 500 + "..."
		t.Errorf("Expected 503 runes, got %d", len([]rune(got)))
	}
}
