package prompts

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesKnownPlaceholders(t *testing.T) {
	template := "Company: {{company_name}} ({{industry}}) targeting {{target_countries}}"
	out := Render(template, RenderContext{
		CompanyName:     "Hanbit Foods",
		Industry:        "food manufacturing",
		TargetCountries: []string{"Vietnam", "Japan"},
	})
	want := "Company: Hanbit Foods (food manufacturing) targeting Vietnam, Japan"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestRenderDefaultsAbsentOptionalFieldsToNA(t *testing.T) {
	template := "Market: {{market_info}} Reference: {{reference_data}} Notes: {{admin_instructions}}"
	out := Render(template, RenderContext{CompanyName: "Hanbit Foods"})
	if out != "Market: N/A Reference: N/A Notes: N/A" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRenderLeavesUnknownPlaceholdersUnresolved(t *testing.T) {
	template := "Hello {{company_name}}, see {{typo_field}}"
	out := Render(template, RenderContext{CompanyName: "Hanbit Foods"})
	if !strings.Contains(out, "{{typo_field}}") {
		t.Fatalf("unknown placeholder must be left intact, got %q", out)
	}
}

func TestRenderIncludesAdminInstructionVerbatim(t *testing.T) {
	instruction := "Focus on halal certification requirements."
	out := Render("Instructions: {{admin_instructions}}", RenderContext{AdminInstructions: instruction})
	if !strings.Contains(out, instruction) {
		t.Fatalf("admin instruction missing from %q", out)
	}
}

func TestRenderSerializesReferenceDataAsJSON(t *testing.T) {
	out := Render("{{reference_data}}", RenderContext{
		ReferenceData: map[string]any{"certifications": []string{"HACCP"}},
	})
	if !strings.Contains(out, `"certifications"`) {
		t.Fatalf("reference data not serialized: %q", out)
	}
}

func TestValidateTemplateRejectsUnknownPlaceholders(t *testing.T) {
	err := ValidateTemplate("Hi {{company_name}}, see {{typo}} and {{another_typo}}")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "another_typo") || !strings.Contains(err.Error(), "typo") {
		t.Fatalf("error should name the unknown placeholders, got %v", err)
	}
}

func TestValidateTemplateAcceptsAllowList(t *testing.T) {
	template := "{{company_name}} {{industry}} {{target_countries}} {{company_description}} {{product_info}} {{market_info}} {{reference_data}} {{admin_instructions}}"
	if err := ValidateTemplate(template); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
