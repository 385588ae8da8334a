package agent

import (
	"strings"
	"testing"

	"slidegen/template"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"generic fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "結果は以下です。\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTemplateChoice(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		wantName   string
		wantReason string
	}{
		{"json response", `{"template_name":"1カラムテキスト","reason":"本文向け"}`, "1カラムテキスト", "本文向け"},
		{"fenced json", "```json\n{\"template_name\":\"エンドスライド\",\"reason\":\"締め\"}\n```", "エンドスライド", "締め"},
		{"bare name", "エンドスライド", "エンドスライド", ""},
		{"quoted name", `"エンドスライド"`, "エンドスライド", ""},
		{"name with trailing prose", "エンドスライド\nこのテンプレートが最適です。", "エンドスライド", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, reason := parseTemplateChoice(tc.in)
			if name != tc.wantName {
				t.Errorf("name = %q, want %q", name, tc.wantName)
			}
			if reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", reason, tc.wantReason)
			}
		})
	}
}

func TestParseContentMapping(t *testing.T) {
	t.Run("string values", func(t *testing.T) {
		mapping, err := parseContentMapping(`{"title":"T","main_text":"M"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mapping["title"] != "T" || mapping["main_text"] != "M" {
			t.Errorf("unexpected mapping: %v", mapping)
		}
	})

	t.Run("non-string values stringified", func(t *testing.T) {
		mapping, err := parseContentMapping(`{"title":"T","count":42}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mapping["count"] != "42" {
			t.Errorf("expected stringified value, got %q", mapping["count"])
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := parseContentMapping("すみません、割り当てできません"); err == nil {
			t.Error("expected error for non-JSON response")
		}
	})
}

func TestValidateContentMapping(t *testing.T) {
	tmpl := template.Descriptor{
		TemplateName: "1カラムテキスト",
		Objects: []template.PlaceholderSpec{
			{Type: template.ObjectText, Name: "title", Role: "タイトル"},
			{Type: template.ObjectText, Name: "main_text", Role: "本文"},
		},
	}

	var logged []string
	validated := validateContentMapping(map[string]string{
		"title":    "T",
		"subtitle": "should be dropped",
	}, tmpl, func(msg string) { logged = append(logged, msg) })

	if len(validated) != 1 || validated["title"] != "T" {
		t.Errorf("unexpected validated mapping: %v", validated)
	}
	if _, ok := validated["subtitle"]; ok {
		t.Error("unknown placeholder key must be dropped")
	}

	found := false
	for _, msg := range logged {
		if strings.Contains(msg, "subtitle") {
			found = true
		}
	}
	if !found {
		t.Error("expected dropped key to be logged")
	}
}
