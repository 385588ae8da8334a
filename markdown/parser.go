// Package markdown splits slide-deck source text into per-slide units.
package markdown

import (
	"strings"

	"slidegen/deck"
)

// SlideSeparator is the delimiter convention: a line consisting solely of
// three dashes starts a new slide.
const SlideSeparator = "---"

// Parser splits markdown content into slide units.
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Split parses markdown content into an ordered list of slide units.
//
// Line endings are normalized to LF first. The text is split on separator
// lines, segments that are empty after trimming are discarded, and each
// surviving unit keeps the 1-based ordinal of its segment in the original
// split (ordinals are not renumbered after discarding).
func (p *Parser) Split(content string) []deck.SlideUnit {
	segments := splitSegments(normalize(content))

	var units []deck.SlideUnit
	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		units = append(units, deck.SlideUnit{
			Ordinal: i + 1,
			Content: segment,
		})
	}
	return units
}

// IsWellFormed reports whether the content can produce at least one slide.
// Text without any separator counts as a single slide.
func (p *Parser) IsWellFormed(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}

	segments := splitSegments(normalize(content))
	if len(segments) < 2 {
		return true
	}
	for _, segment := range segments {
		if strings.TrimSpace(segment) != "" {
			return true
		}
	}
	return false
}

func normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// splitSegments splits normalized content on lines that consist solely of
// the separator token.
func splitSegments(content string) []string {
	lines := strings.Split(content, "\n")

	segments := []string{}
	var current []string
	for _, line := range lines {
		if strings.TrimSpace(line) == SlideSeparator {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	segments = append(segments, strings.Join(current, "\n"))
	return segments
}
