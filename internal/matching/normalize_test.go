package matching

import (
	"strings"
	"testing"
)

func TestNormalizeStrictValidObject(t *testing.T) {
	obj := normalizeStrict(`{"company_strengths": ["fast"]}`)
	if _, ok := obj["company_strengths"]; !ok {
		t.Fatalf("expected parsed object, got %#v", obj)
	}
	if _, flagged := obj["parsing_error"]; flagged {
		t.Fatal("valid object must not carry parsing_error")
	}
}

func TestNormalizeStrictWrapsMalformedOutput(t *testing.T) {
	raw := "{not-json"
	obj := normalizeStrict(raw)
	if obj["parsing_error"] != true {
		t.Fatalf("expected parsing_error=true, got %#v", obj)
	}
	if obj["raw_content"] != raw {
		t.Fatalf("expected raw content preserved, got %#v", obj["raw_content"])
	}
}

func TestNormalizeTolerantRepairsResponse(t *testing.T) {
	obj := normalizeTolerant(`Here is the data: {"a":1,} extra text`, "en")
	if got, ok := obj["a"].(float64); !ok || got != 1 {
		t.Fatalf("expected repaired a=1, got %#v", obj)
	}
}

func TestNormalizeTolerantFallsBackToExcerpts(t *testing.T) {
	raw := "The market size is estimated at 4.2B USD by 2027. " +
		"Key competitors include two regional incumbents. " +
		"Regulation requires local certification before import."
	obj := normalizeTolerant(raw, "en")
	if obj["parsing_error"] != true {
		t.Fatalf("expected parsing_error=true, got %#v", obj)
	}
	if obj["raw_content"] != raw {
		t.Fatal("expected raw content preserved")
	}
	excerpts, ok := obj["excerpts"].(map[string]string)
	if !ok || len(excerpts) == 0 {
		t.Fatalf("expected non-empty excerpts, got %#v", obj["excerpts"])
	}
	if !strings.Contains(excerpts["market_size"], "4.2B") {
		t.Fatalf("expected market_size excerpt, got %q", excerpts["market_size"])
	}
	if excerpts["competitors"] == "" || excerpts["regulations"] == "" {
		t.Fatalf("expected competitor and regulation excerpts, got %#v", excerpts)
	}
}

func TestSectionExcerptsKoreanKeywords(t *testing.T) {
	text := "베트남 시장 규모는 빠르게 성장하고 있습니다. 주요 경쟁사는 두 곳이며 규제 요건으로 현지 인증이 필요합니다."
	excerpts := sectionExcerpts(text, "ko")
	if !strings.Contains(excerpts["market_size"], "시장 규모") {
		t.Fatalf("expected market_size excerpt, got %#v", excerpts)
	}
	if excerpts["competitors"] == "" || excerpts["regulations"] == "" {
		t.Fatalf("expected competitors and regulations excerpts, got %#v", excerpts)
	}
}

func TestSectionExcerptsEmptyText(t *testing.T) {
	if got := sectionExcerpts("   ", "en"); len(got) != 0 {
		t.Fatalf("expected no excerpts for blank text, got %#v", got)
	}
}
