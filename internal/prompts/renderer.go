package prompts

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// notAvailable is rendered for absent optional fields.
const notAvailable = "N/A"

// RenderContext carries the values substituted into a prompt template.
type RenderContext struct {
	CompanyName        string
	Industry           string
	TargetCountries    []string
	CompanyDescription string
	ProductInfo        string
	MarketInfo         string
	// ReferenceData is admin-supplied structured data, serialized as JSON.
	ReferenceData map[string]any
	// AdminInstructions is a free-text instruction included verbatim.
	AdminInstructions string
}

// AllowedPlaceholders is the save-time allow-list for admin-edited templates.
var AllowedPlaceholders = []string{
	"company_name",
	"industry",
	"target_countries",
	"company_description",
	"product_info",
	"market_info",
	"reference_data",
	"admin_instructions",
}

var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Render substitutes every known {{name}} token with its string value.
// Unknown placeholders are left unresolved so prompt edits by non-engineers
// cannot break the pipeline at render time.
func Render(template string, rc RenderContext) string {
	values := rc.values()
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.Trim(token, "{}")
		if val, ok := values[name]; ok {
			return val
		}
		return token
	})
}

// ValidateTemplate checks that every placeholder in an admin-edited template
// is on the allow-list, returning the unknown names.
func ValidateTemplate(template string) error {
	allowed := make(map[string]struct{}, len(AllowedPlaceholders))
	for _, name := range AllowedPlaceholders {
		allowed[name] = struct{}{}
	}

	unknown := map[string]struct{}{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if _, ok := allowed[name]; !ok {
			unknown[name] = struct{}{}
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("unknown placeholders: %s", strings.Join(names, ", "))
}

func (rc RenderContext) values() map[string]string {
	return map[string]string{
		"company_name":        fallback(rc.CompanyName),
		"industry":            fallback(rc.Industry),
		"target_countries":    fallback(strings.Join(rc.TargetCountries, ", ")),
		"company_description": fallback(rc.CompanyDescription),
		"product_info":        fallback(rc.ProductInfo),
		"market_info":         fallback(rc.MarketInfo),
		"reference_data":      rc.referenceJSON(),
		"admin_instructions":  fallback(rc.AdminInstructions),
	}
}

func (rc RenderContext) referenceJSON() string {
	if len(rc.ReferenceData) == 0 {
		return notAvailable
	}
	data, err := json.Marshal(rc.ReferenceData)
	if err != nil {
		return notAvailable
	}
	return string(data)
}

func fallback(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}
