package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"slidegen/deck"
	"slidegen/template"
)

// RenderError is a fatal rendering failure. Per-slide resolution problems
// are not RenderErrors; they skip the slide and the run continues.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("[Render.%s] %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

const (
	renderFontSize = 14

	// Non-text shapes are not reproduced faithfully; they are replaced by a
	// marker textbox at the same geometry. Deliberate limitation.
	nonTextMarker = "[要素]"
)

// RenderService turns decided slides into a single pptx document.
type RenderService struct {
	scratchDir string
	logger     func(string)
}

// NewRenderService creates a renderer using scratchDir for per-slide
// template copies.
func NewRenderService(scratchDir string, logger func(string)) *RenderService {
	return &RenderService{scratchDir: scratchDir, logger: logger}
}

func (s *RenderService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// Render builds the output presentation from the decided slides, in input
// order. A slide whose template layout artifact cannot be located is logged
// and omitted; the output slide count equals the number of decided slides
// with a resolvable artifact. Duplicated shapes keep the template geometry
// EMU-for-EMU.
func (s *RenderService) Render(decided []deck.DecidedSlide, reg *template.Registry, outputPath string) (string, error) {
	if err := os.MkdirAll(s.scratchDir, 0755); err != nil {
		return "", &RenderError{Op: "Prepare", Err: err}
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &RenderError{Op: "Prepare", Err: err}
		}
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = "Generated Slides"
	p.GetDocumentProperties().Creator = "slidegen"

	rendered := 0
	for _, d := range decided {
		layoutPath, ok := reg.LayoutPath(d.TemplateName)
		if !ok {
			s.log(fmt.Sprintf("[RENDER] Template file not found for %q, skipping slide %d", d.TemplateName, d.Ordinal))
			continue
		}

		layout, err := s.loadScratchCopy(layoutPath, d)
		if err != nil {
			return "", &RenderError{Op: "Duplicate", Err: err}
		}

		var slide *ppt.Slide
		if rendered == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		s.fillSlide(slide, layout, d.ContentMapping)
		rendered++
	}

	if rendered == 0 {
		return "", &RenderError{Op: "Render", Err: fmt.Errorf("no renderable slides")}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return "", &RenderError{Op: "Write", Err: err}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", &RenderError{Op: "Write", Err: err}
	}
	defer f.Close()

	if err := w.(*ppt.PPTXWriter).WriteTo(f); err != nil {
		return "", &RenderError{Op: "Write", Err: err}
	}

	s.log(fmt.Sprintf("[RENDER] Wrote %d slides to %s", rendered, outputPath))
	return outputPath, nil
}

// loadScratchCopy duplicates the template artifact into a uniquely named
// scratch file before reading it, so repeated renders of the same template
// never touch the shared artifact. The scratch file is removed afterwards.
func (s *RenderService) loadScratchCopy(layoutPath string, d deck.DecidedSlide) (*LayoutSlide, error) {
	scratchPath := filepath.Join(s.scratchDir, fmt.Sprintf("tmp_%s_%d.pptx", d.TemplateName, d.Ordinal))
	if err := copyFile(layoutPath, scratchPath); err != nil {
		return nil, err
	}
	defer os.Remove(scratchPath)

	return ReadLayoutSlide(scratchPath)
}

// fillSlide appends every layout shape to the output slide. Text shapes
// whose default text matches a content-mapping key get the mapped value;
// other text shapes keep the template default verbatim.
func (s *RenderService) fillSlide(slide *ppt.Slide, layout *LayoutSlide, mapping map[string]string) {
	for _, shape := range layout.Shapes {
		text := shape.Text
		if shape.HasText {
			if replacement, ok := mapping[strings.TrimSpace(shape.Text)]; ok {
				text = replacement
			}
		} else {
			text = nonTextMarker
		}

		rt := slide.CreateRichTextShape()
		rt.SetOffsetX(shape.Left).SetOffsetY(shape.Top)
		rt.SetWidth(shape.Width).SetHeight(shape.Height)

		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				rt.CreateParagraph()
			}
			tr := rt.CreateTextRun(line)
			tr.GetFont().SetSize(renderFontSize)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
