// Package workflow sequences the slide generation pipeline: parse, format,
// select templates, assign content, render.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"slidegen/agent"
	"slidegen/config"
	"slidegen/deck"
	"slidegen/export"
	"slidegen/markdown"
	"slidegen/template"
)

// Stage identifies one pipeline stage.
type Stage int

const (
	StageParse Stage = iota + 1
	StageFormat
	StageSelectTemplate
	StageAssignContent
	StageRender
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageFormat:
		return "format"
	case StageSelectTemplate:
		return "select_template"
	case StageAssignContent:
		return "assign_content"
	case StageRender:
		return "render"
	}
	return "unknown"
}

// State is the accumulating pipeline state, owned and mutated only by the
// workflow. IntermediateFiles is append-only; ErrorMessage, once set, is
// terminal.
type State struct {
	MarkdownContent   string              `json:"markdown_content"`
	Slides            []deck.SlideUnit    `json:"slides"`
	DecidedSlides     []deck.DecidedSlide `json:"processed_slides"`
	OutputFile        string              `json:"output_file,omitempty"`
	IntermediateFiles []string            `json:"intermediate_files"`
	ErrorMessage      string              `json:"error_message,omitempty"`
}

// StageError wraps a fatal error with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Workflow runs the five-stage slide generation pipeline. Strictly linear,
// single-threaded; slides are processed one at a time in ordinal order.
type Workflow struct {
	cfg      config.Config
	logger   func(string)
	delegate agent.Delegate
	registry *template.Registry
	parser   *markdown.Parser
	renderer *export.RenderService
	recorder RunRecorder
}

// RunRecorder receives the outcome of finished runs. Recording failures are
// logged, never fatal.
type RunRecorder interface {
	RecordRun(runID string, startedAt time.Time, inputFile string, result deck.RunResult) error
}

// New builds a Workflow. The registry must already be loaded; a default
// template missing from the registry is a configuration error and fails
// construction before any stage can run.
func New(cfg config.Config, logger func(string), delegate agent.Delegate, registry *template.Registry) (*Workflow, error) {
	if _, ok := registry.Get(cfg.DefaultTemplate); !ok {
		return nil, fmt.Errorf("default template %q is not a loaded template", cfg.DefaultTemplate)
	}

	return &Workflow{
		cfg:      cfg,
		logger:   logger,
		delegate: delegate,
		registry: registry,
		parser:   markdown.NewParser(),
		renderer: export.NewRenderService(cfg.ScratchDir, logger),
	}, nil
}

// SetRecorder attaches a run recorder.
func (w *Workflow) SetRecorder(r RunRecorder) {
	w.recorder = r
}

func (w *Workflow) log(msg string) {
	if w.logger != nil {
		w.logger(msg)
	}
}

// Run executes the pipeline over the given markdown content and returns the
// caller-facing result. A render failure is terminal but the intermediate
// artifacts produced before it are still returned.
func (w *Workflow) Run(ctx context.Context, inputFile string, markdownContent string, outputPath string) deck.RunResult {
	runID := uuid.NewString()
	startedAt := time.Now()
	w.log(fmt.Sprintf("[WORKFLOW] Run %s started (input: %s)", runID, inputFile))

	state := &State{MarkdownContent: markdownContent}
	result := w.run(ctx, state, outputPath)

	if w.recorder != nil {
		if err := w.recorder.RecordRun(runID, startedAt, inputFile, result); err != nil {
			w.log(fmt.Sprintf("[WORKFLOW] Failed to record run %s: %v", runID, err))
		}
	}

	if result.Success {
		w.log(fmt.Sprintf("[WORKFLOW] Run %s finished: %s", runID, result.OutputFile))
	} else {
		w.log(fmt.Sprintf("[WORKFLOW] Run %s failed: %s", runID, result.ErrorMessage))
	}
	return result
}

func (w *Workflow) run(ctx context.Context, state *State, outputPath string) deck.RunResult {
	stages := []func(context.Context, *State) error{
		w.parseStage,
		w.formatStage,
		w.selectTemplateStage,
		w.assignContentStage,
	}

	for _, stage := range stages {
		if err := stage(ctx, state); err != nil {
			state.ErrorMessage = err.Error()
			return w.result(state)
		}
	}

	if err := w.renderStage(ctx, state, outputPath); err != nil {
		state.ErrorMessage = err.Error()
		return w.result(state)
	}

	return w.result(state)
}

func (w *Workflow) result(state *State) deck.RunResult {
	return deck.RunResult{
		Success:           state.ErrorMessage == "" && state.OutputFile != "",
		OutputFile:        state.OutputFile,
		ErrorMessage:      state.ErrorMessage,
		IntermediateFiles: state.IntermediateFiles,
	}
}

// parseStage splits the markdown into slide units.
func (w *Workflow) parseStage(_ context.Context, state *State) error {
	w.log("[WORKFLOW] Step 1: parsing markdown")

	units := w.parser.Split(state.MarkdownContent)
	if len(units) == 0 {
		return &StageError{Stage: StageParse, Err: fmt.Errorf("no slide content found in input")}
	}
	state.Slides = units

	w.snapshot(state, StageParse, "parsed_slides", units)
	w.log(fmt.Sprintf("[WORKFLOW] Parsed %d slides", len(units)))
	return nil
}

// formatStage reformats each unit's content in place, one delegate call per
// slide in original order. Ordinals are preserved.
func (w *Workflow) formatStage(ctx context.Context, state *State) error {
	w.log("[WORKFLOW] Step 2: formatting content")

	for i, unit := range state.Slides {
		formatted, err := w.delegate.FormatContent(ctx, unit)
		if err != nil {
			return &StageError{Stage: StageFormat, Err: err}
		}
		state.Slides[i].Content = formatted
	}

	w.snapshot(state, StageFormat, "formatted_slides", state.Slides)
	return nil
}

// selectTemplateStage asks the delegate for a template per slide, running
// the correction sub-routine on invalid names. Content mappings stay empty
// until the next stage.
func (w *Workflow) selectTemplateStage(ctx context.Context, state *State) error {
	w.log("[WORKFLOW] Step 3: selecting templates")

	catalog := w.registry.DescribeForPrompt()

	var decided []deck.DecidedSlide
	for _, unit := range state.Slides {
		name, _, err := w.delegate.ChooseTemplate(ctx, catalog, unit)
		if err != nil {
			return &StageError{Stage: StageSelectTemplate, Err: err}
		}

		if _, ok := w.registry.Get(name); !ok {
			name, err = w.correctChoice(ctx, unit, name)
			if err != nil {
				return &StageError{Stage: StageSelectTemplate, Err: err}
			}
		}

		decided = append(decided, deck.DecidedSlide{
			Ordinal:        unit.Ordinal,
			TemplateName:   name,
			ContentMapping: map[string]string{},
		})
	}
	state.DecidedSlides = decided

	w.snapshot(state, StageSelectTemplate, "template_selection", decided)
	return nil
}

// correctChoice is the correction sub-routine: one bounded retry with the
// valid-name list, then the configured default template.
func (w *Workflow) correctChoice(ctx context.Context, unit deck.SlideUnit, invalidName string) (string, error) {
	w.log(fmt.Sprintf("[WORKFLOW] Slide %d: template %q not found, requesting correction", unit.Ordinal, invalidName))

	corrected, err := w.delegate.CorrectTemplateChoice(ctx, invalidName, w.registry.Names())
	if err != nil {
		return "", err
	}
	if _, ok := w.registry.Get(corrected); ok {
		return corrected, nil
	}

	w.log(fmt.Sprintf("[WORKFLOW] Slide %d: correction %q still invalid, using default %q", unit.Ordinal, corrected, w.cfg.DefaultTemplate))
	return w.cfg.DefaultTemplate, nil
}

// assignContentStage fills each decided slide's content mapping. A template
// that no longer resolves skips that slide with a logged error; the run
// continues.
func (w *Workflow) assignContentStage(ctx context.Context, state *State) error {
	w.log("[WORKFLOW] Step 4: assigning content")

	var updated []deck.DecidedSlide
	for i, decided := range state.DecidedSlides {
		unit := state.Slides[i]

		tmpl, ok := w.registry.Get(decided.TemplateName)
		if !ok {
			w.log(fmt.Sprintf("[WORKFLOW] Slide %d: template %q no longer resolves, skipping", decided.Ordinal, decided.TemplateName))
			continue
		}

		mapping, err := w.delegate.AssignContent(ctx, tmpl, unit)
		if err != nil {
			return &StageError{Stage: StageAssignContent, Err: err}
		}

		decided.ContentMapping = mapping
		updated = append(updated, decided)
	}
	state.DecidedSlides = updated

	w.snapshot(state, StageAssignContent, "content_assignment", updated)
	return nil
}

// renderStage hands the decided slides to the renderer. Any renderer error
// transitions the run to its terminal failed state; the output file field
// stays unset.
func (w *Workflow) renderStage(_ context.Context, state *State, outputPath string) error {
	w.log("[WORKFLOW] Step 5: generating PowerPoint")

	if outputPath == "" {
		outputPath = filepath.Join(w.cfg.OutputDir, fmt.Sprintf("generated_slides_%s.pptx", time.Now().Format("20060102_150405")))
	}

	out, err := w.renderer.Render(state.DecidedSlides, w.registry, outputPath)
	if err != nil {
		return &StageError{Stage: StageRender, Err: err}
	}
	state.OutputFile = out

	w.snapshot(state, StageRender, "render_result", map[string]string{"output_file": out})
	return nil
}

// snapshot persists one stage's output list as a JSON intermediate artifact
// and appends its path to the state. Snapshot failures are logged, not
// fatal: artifacts exist for observability, not recovery.
func (w *Workflow) snapshot(state *State, stage Stage, label string, payload interface{}) {
	path, err := writeSnapshot(w.cfg.IntermediateDir, int(stage), label, payload)
	if err != nil {
		w.log(fmt.Sprintf("[WORKFLOW] Failed to write %s snapshot: %v", stage, err))
		return
	}
	state.IntermediateFiles = append(state.IntermediateFiles, path)
}

func writeSnapshot(dir string, ordinal int, label string, payload interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%02d_%s_%s.json", ordinal, label, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := marshalSnapshot(payload)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
