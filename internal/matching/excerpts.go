package matching

import (
	"strings"
	"unicode/utf8"
)

// excerptWindow is the number of runes captured from a keyword hit onward.
const excerptWindow = 300

// expectedSections are the section keys the research prompts ask for; the
// excerpt fallback tries to recover text for each of them.
var expectedSections = []string{
	"market_overview",
	"market_size",
	"competitors",
	"regulations",
	"opportunities",
	"risks",
}

var sectionKeywords = map[string]map[string][]string{
	"market_overview": {
		"ko": {"시장 개요", "시장 현황", "개요"},
		"ja": {"市場概要", "市場の概要", "概要"},
		"en": {"market overview", "overview"},
	},
	"market_size": {
		"ko": {"시장 규모", "시장규모"},
		"ja": {"市場規模"},
		"en": {"market size"},
	},
	"competitors": {
		"ko": {"경쟁사", "경쟁 업체", "경쟁"},
		"ja": {"競合他社", "競合"},
		"en": {"competitor", "competition"},
	},
	"regulations": {
		"ko": {"규제", "인증", "법규"},
		"ja": {"規制", "認証", "法規"},
		"en": {"regulation", "regulatory", "compliance"},
	},
	"opportunities": {
		"ko": {"기회", "진출 기회"},
		"ja": {"機会", "チャンス"},
		"en": {"opportunit"},
	},
	"risks": {
		"ko": {"위험", "리스크"},
		"ja": {"リスク", "課題"},
		"en": {"risk", "challenge"},
	},
}

// sectionExcerpts pulls a best-effort text window for each expected section
// via locale-aware keyword search, so the review surface has something to
// render when no JSON could be salvaged.
func sectionExcerpts(text, locale string) map[string]string {
	if strings.TrimSpace(text) == "" {
		return map[string]string{}
	}
	lower := strings.ToLower(text)

	out := make(map[string]string)
	for _, section := range expectedSections {
		keywords := keywordsFor(section, locale)
		for _, keyword := range keywords {
			idx := strings.Index(lower, strings.ToLower(keyword))
			if idx < 0 {
				continue
			}
			out[section] = excerptAt(text, idx)
			break
		}
	}
	return out
}

func keywordsFor(section, locale string) []string {
	byLocale := sectionKeywords[section]
	keywords := append([]string(nil), byLocale[locale]...)
	// English keywords double as a fallback for any locale.
	if locale != "en" {
		keywords = append(keywords, byLocale["en"]...)
	}
	return keywords
}

// excerptAt returns up to excerptWindow runes starting at a byte offset.
func excerptAt(text string, byteOffset int) string {
	rest := text[byteOffset:]
	if utf8.RuneCountInString(rest) <= excerptWindow {
		return strings.TrimSpace(rest)
	}
	runes := []rune(rest)
	return strings.TrimSpace(string(runes[:excerptWindow]))
}
