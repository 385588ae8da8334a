// Package agent holds the language-model-backed decision delegate: content
// reformatting, template selection, and placeholder content assignment.
package agent

import (
	"context"

	"slidegen/deck"
	"slidegen/template"
)

// Delegate is the external decision-maker the pipeline consults. Each call
// is an independent round trip; no cross-slide context is carried between
// calls and the delegate is stateless from the caller's point of view.
type Delegate interface {
	// FormatContent rewrites one slide's content for presentation. Text in,
	// text out; no structural contract beyond that.
	FormatContent(ctx context.Context, unit deck.SlideUnit) (string, error)

	// ChooseTemplate picks a template for one slide given the full catalog
	// description. The returned name is not guaranteed to match any loaded
	// template; callers must validate it against the registry.
	ChooseTemplate(ctx context.Context, catalog string, unit deck.SlideUnit) (name string, justification string, err error)

	// CorrectTemplateChoice asks once for a corrected name after an invalid
	// choice. The single bounded retry of the correction sub-routine.
	CorrectTemplateChoice(ctx context.Context, invalidName string, validNames []string) (string, error)

	// AssignContent maps one slide's content onto the chosen template's
	// placeholders. The result may under- or over-cover the placeholder
	// list and is validated before use.
	AssignContent(ctx context.Context, tmpl template.Descriptor, unit deck.SlideUnit) (map[string]string, error)
}
