package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"slidegen/template"
)

// templateChoice is the provisional record parsed from a choose-template
// response, before name validation against the registry.
type templateChoice struct {
	TemplateName string `json:"template_name"`
	Reason       string `json:"reason"`
}

// extractJSON strips markdown code fences from an LLM response.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Try json code block
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+7:]
		if endIdx := strings.Index(content, "```"); endIdx >= 0 {
			content = content[:endIdx]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		// Try generic code block
		content = content[idx+3:]
		if endIdx := strings.Index(content, "```"); endIdx >= 0 {
			content = content[:endIdx]
		}
	}

	return strings.TrimSpace(content)
}

// parseTemplateChoice parses a choose-template response. A JSON object with
// template_name is preferred; a bare name (possibly quoted) is accepted as
// the model sometimes answers with the name alone.
func parseTemplateChoice(content string) (name string, reason string) {
	content = extractJSON(content)

	var choice templateChoice
	if err := json.Unmarshal([]byte(content), &choice); err == nil && choice.TemplateName != "" {
		return strings.TrimSpace(choice.TemplateName), strings.TrimSpace(choice.Reason)
	}

	name = strings.TrimSpace(content)
	name = strings.Trim(name, `"'「」`)
	if idx := strings.IndexByte(name, '\n'); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	return name, ""
}

// parseContentMapping parses an assign-content response into a raw mapping.
func parseContentMapping(content string) (map[string]string, error) {
	content = extractJSON(content)

	var mapping map[string]string
	if err := json.Unmarshal([]byte(content), &mapping); err != nil {
		// Values may not all be strings; retry loosely and stringify.
		var loose map[string]interface{}
		if err2 := json.Unmarshal([]byte(content), &loose); err2 != nil {
			return nil, fmt.Errorf("failed to parse content mapping: %v", err)
		}
		mapping = make(map[string]string, len(loose))
		for k, v := range loose {
			switch val := v.(type) {
			case string:
				mapping[k] = val
			default:
				mapping[k] = fmt.Sprintf("%v", val)
			}
		}
	}
	return mapping, nil
}

// validateContentMapping is the gate between the delegate's raw output and
// the typed DecidedSlide: keys that do not name a placeholder of the chosen
// template are dropped. Under-coverage is allowed; unmapped placeholders
// keep their template default text at render time.
func validateContentMapping(raw map[string]string, tmpl template.Descriptor, logf func(string)) map[string]string {
	known := make(map[string]bool, len(tmpl.Objects))
	for _, obj := range tmpl.Objects {
		known[obj.Name] = true
	}

	validated := make(map[string]string, len(raw))
	for key, value := range raw {
		if !known[key] {
			if logf != nil {
				logf(fmt.Sprintf("[DELEGATE] Dropping unknown placeholder %q for template %q", key, tmpl.TemplateName))
			}
			continue
		}
		validated[key] = value
	}
	return validated
}
