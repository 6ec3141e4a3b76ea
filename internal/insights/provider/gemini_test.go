package provider

import "testing"

func TestParseInsightJSONWithMarkdownFences(t *testing.T) {
	text := "Here are the results:\n```json\n[{\"topic\":\"Hilux wanted\",\"summary\":\"Looking for a bakkie\",\"sentiment\":\"HOT\",\"sourcePlatform\":\"4x4community forum\",\"contactName\":\"\",\"contactPhone\":\"\",\"contactEmail\":\"\"}]\n```"

	raw, err := parseInsightJSON(text)
	if err != nil {
		t.Fatalf("parseInsightJSON returned error: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(raw))
	}
	if raw[0].Topic != "Hilux wanted" || raw[0].Sentiment != "HOT" {
		t.Fatalf("unexpected insight: %+v", raw[0])
	}
}

func TestParseInsightJSONEmptyArray(t *testing.T) {
	raw, err := parseInsightJSON("[]")
	if err != nil {
		t.Fatalf("parseInsightJSON returned error: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected no insights, got %d", len(raw))
	}
}

func TestParseInsightJSONNoArray(t *testing.T) {
	if _, err := parseInsightJSON("I could not find anything."); err == nil {
		t.Fatal("expected an error for prose-only output")
	}
}

func TestExtractContactAllEmpty(t *testing.T) {
	if c := extractContact(rawInsight{ContactName: "  ", ContactPhone: "", ContactEmail: ""}); c != nil {
		t.Fatalf("expected nil contact, got %+v", c)
	}
}
