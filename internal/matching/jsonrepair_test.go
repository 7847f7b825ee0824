package matching

import "testing"

func TestTolerantParseProseAndTrailingComma(t *testing.T) {
	obj, err := tolerantParse(`Here is the data: {"a":1,} extra text`)
	if err != nil {
		t.Fatalf("tolerantParse: %v", err)
	}
	if got, ok := obj["a"].(float64); !ok || got != 1 {
		t.Fatalf("expected a=1, got %#v", obj["a"])
	}
	if len(obj) != 1 {
		t.Fatalf("expected single key, got %#v", obj)
	}
}

func TestTolerantParseCodeFences(t *testing.T) {
	obj, err := tolerantParse("```json\n{\"market_overview\": \"growing\"}\n```")
	if err != nil {
		t.Fatalf("tolerantParse: %v", err)
	}
	if obj["market_overview"] != "growing" {
		t.Fatalf("expected market_overview, got %#v", obj)
	}
}

func TestTolerantParseSingleQuotesAndBareKeys(t *testing.T) {
	obj, err := tolerantParse(`{market_size: 'large', competitors: 'few',}`)
	if err != nil {
		t.Fatalf("tolerantParse: %v", err)
	}
	if obj["market_size"] != "large" || obj["competitors"] != "few" {
		t.Fatalf("unexpected result %#v", obj)
	}
}

func TestTolerantParseSecondRoundRepairs(t *testing.T) {
	obj, err := tolerantParse(`{"a": 1,, "b": "x"} and then some trailing words`)
	if err != nil {
		t.Fatalf("tolerantParse: %v", err)
	}
	if obj["b"] != "x" {
		t.Fatalf("unexpected result %#v", obj)
	}
}

func TestTolerantParseSalvagesPartialObject(t *testing.T) {
	raw := `{"market_overview": "big market", "score": 42, [[[broken`
	obj, err := tolerantParse(raw)
	if err != nil {
		t.Fatalf("tolerantParse: %v", err)
	}
	if obj["market_overview"] != "big market" {
		t.Fatalf("expected salvaged market_overview, got %#v", obj)
	}
	if got, ok := obj["score"].(float64); !ok || got != 42 {
		t.Fatalf("expected salvaged score=42, got %#v", obj["score"])
	}
}

func TestTolerantParseNoJSON(t *testing.T) {
	if _, err := tolerantParse("there is no structured data here at all"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestExtractBraceBlockIgnoresBracesInStrings(t *testing.T) {
	raw := `prefix {"note": "a } inside", "x": 2} suffix`
	got := extractBraceBlock(raw)
	if got != `{"note": "a } inside", "x": 2}` {
		t.Fatalf("unexpected block %q", got)
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	if got := removeTrailingCommas(`{"a": [1, 2,], "b": 3,}`); got != `{"a": [1, 2], "b": 3}` {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestQuoteBareKeys(t *testing.T) {
	if got := quoteBareKeys(`{alpha: 1, beta_2: "x"}`); got != `{"alpha": 1, "beta_2": "x"}` {
		t.Fatalf("unexpected result %q", got)
	}
}
