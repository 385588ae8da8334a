// Package template loads and serves the slide template catalog.
//
// Each template lives in its own subdirectory of the templates root and
// consists of a template.json descriptor plus a template.pptx single-slide
// layout artifact whose shapes carry the placeholder default texts.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ObjectType is the kind of a template placeholder.
type ObjectType string

const (
	ObjectText  ObjectType = "text"
	ObjectImage ObjectType = "image"
)

// PlaceholderSpec describes one substitutable region in a template. Name is
// the key used for content-mapping lookup.
type PlaceholderSpec struct {
	Type ObjectType `json:"type"`
	Name string     `json:"name"`
	Role string     `json:"role"`
}

// Descriptor describes one reusable slide layout.
type Descriptor struct {
	TemplateName    string            `json:"template_name"`
	Description     string            `json:"description"`
	UseCaseExamples []string          `json:"use_case_examples"`
	Objects         []PlaceholderSpec `json:"objects"`
}

const (
	descriptorFile = "template.json"
	layoutFile     = "template.pptx"
)

// Registry owns the loaded template set. It is read-only between explicit
// Load/Reload calls.
type Registry struct {
	dir    string
	logger func(string)

	mu        sync.RWMutex
	templates map[string]Descriptor
	order     []string
}

// NewRegistry creates a Registry over the given templates root directory.
func NewRegistry(dir string, logger func(string)) *Registry {
	return &Registry{
		dir:       dir,
		logger:    logger,
		templates: make(map[string]Descriptor),
	}
}

func (r *Registry) log(msg string) {
	if r.logger != nil {
		r.logger(msg)
	}
}

// Load scans the immediate subdirectories of the templates root and parses
// each template.json into a Descriptor. A malformed descriptor is logged and
// skipped; a missing root directory is fatal.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("templates directory not found: %s: %w", r.dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates = make(map[string]Descriptor)
	r.order = nil

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		descPath := filepath.Join(r.dir, entry.Name(), descriptorFile)
		data, err := os.ReadFile(descPath)
		if err != nil {
			if !os.IsNotExist(err) {
				r.log(fmt.Sprintf("[TEMPLATE] Error reading descriptor %s: %v", descPath, err))
			}
			continue
		}

		var desc Descriptor
		if err := json.Unmarshal(data, &desc); err != nil {
			r.log(fmt.Sprintf("[TEMPLATE] Error loading template %s: %v", entry.Name(), err))
			continue
		}
		if desc.TemplateName == "" {
			r.log(fmt.Sprintf("[TEMPLATE] Skipping %s: empty template_name", entry.Name()))
			continue
		}
		if _, exists := r.templates[desc.TemplateName]; exists {
			r.log(fmt.Sprintf("[TEMPLATE] Duplicate template name %q in %s, keeping first", desc.TemplateName, entry.Name()))
			continue
		}

		r.templates[desc.TemplateName] = desc
		r.order = append(r.order, desc.TemplateName)
	}

	r.log(fmt.Sprintf("[TEMPLATE] Loaded %d templates from %s", len(r.order), r.dir))
	return nil
}

// Reload clears the cache and loads the templates root again. It is an
// explicit operation, never invoked during a pipeline run.
func (r *Registry) Reload() error {
	return r.Load()
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.templates[name]
	return desc, ok
}

// Names returns all loaded template names in load order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// LayoutPath resolves the per-template single-slide layout artifact. The
// second return is false when the template is unknown or the artifact file
// is missing on disk.
func (r *Registry) LayoutPath(name string) (string, bool) {
	r.mu.RLock()
	_, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}

	path := filepath.Join(r.dir, name, layoutFile)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// DescribeForPrompt formats the whole catalog for inclusion in a delegate
// prompt. Pure projection, no side effects.
func (r *Registry) DescribeForPrompt() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	for _, name := range r.order {
		desc := r.templates[name]

		var objects []string
		for _, obj := range desc.Objects {
			objects = append(objects, fmt.Sprintf("  - %s (%s): %s", obj.Name, obj.Type, obj.Role))
		}

		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", 50))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("テンプレート名: %s\n", desc.TemplateName))
		sb.WriteString(fmt.Sprintf("説明: %s\n", desc.Description))
		sb.WriteString(fmt.Sprintf("利用ケース例: %s\n", strings.Join(desc.UseCaseExamples, ", ")))
		sb.WriteString("オブジェクト構成:\n")
		sb.WriteString(strings.Join(objects, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}
