package export

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
	"testing"
)

// fixtureShape describes one shape of a generated layout fixture.
type fixtureShape struct {
	text    string // empty means a non-text (picture) shape
	hasText bool
	left    int64
	top     int64
	width   int64
	height  int64
}

// writeLayoutFixture writes a minimal single-slide pptx containing the
// given shapes.
func writeLayoutFixture(t *testing.T, path string, shapes []fixtureShape) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	for _, s := range shapes {
		if s.hasText {
			sb.WriteString(`<p:sp><p:spPr><a:xfrm>`)
			sb.WriteString(fmt.Sprintf(`<a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/>`, s.left, s.top, s.width, s.height))
			sb.WriteString(`</a:xfrm></p:spPr><p:txBody><a:bodyPr/>`)
			for _, line := range strings.Split(s.text, "\n") {
				sb.WriteString(`<a:p><a:r><a:t>`)
				xmlEscape(&sb, line)
				sb.WriteString(`</a:t></a:r></a:p>`)
			}
			sb.WriteString(`</p:txBody></p:sp>`)
		} else {
			sb.WriteString(`<p:pic><p:spPr><a:xfrm>`)
			sb.WriteString(fmt.Sprintf(`<a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/>`, s.left, s.top, s.width, s.height))
			sb.WriteString(`</a:xfrm></p:spPr></p:pic>`)
		}
	}
	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
}

func xmlEscape(sb *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '&':
			sb.WriteString("&amp;")
		default:
			sb.WriteRune(r)
		}
	}
}

func TestReadLayoutSlide(t *testing.T) {
	path := t.TempDir() + "/template.pptx"
	writeLayoutFixture(t, path, []fixtureShape{
		{text: "title", hasText: true, left: 457200, top: 274638, width: 8229600, height: 1143000},
		{text: "main_text", hasText: true, left: 457200, top: 1600200, width: 8229600, height: 4525963},
		{hasText: false, left: 100, top: 200, width: 300, height: 400},
	})

	layout, err := ReadLayoutSlide(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout.Shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(layout.Shapes))
	}

	title := layout.Shapes[0]
	if !title.HasText || title.Text != "title" {
		t.Errorf("unexpected first shape: %+v", title)
	}
	if title.Left != 457200 || title.Top != 274638 || title.Width != 8229600 || title.Height != 1143000 {
		t.Errorf("geometry not preserved: %+v", title)
	}

	pic := layout.Shapes[2]
	if pic.HasText {
		t.Error("picture shape must not be a text shape")
	}
	if pic.Left != 100 || pic.Top != 200 || pic.Width != 300 || pic.Height != 400 {
		t.Errorf("picture geometry not preserved: %+v", pic)
	}
}

func TestReadLayoutSlide_MultiParagraphText(t *testing.T) {
	path := t.TempDir() + "/template.pptx"
	writeLayoutFixture(t, path, []fixtureShape{
		{text: "line one\nline two", hasText: true, left: 1, top: 2, width: 3, height: 4},
	})

	layout, err := ReadLayoutSlide(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layout.Shapes[0].Text != "line one\nline two" {
		t.Errorf("paragraphs must join with newline, got %q", layout.Shapes[0].Text)
	}
}

func TestReadLayoutSlide_NoSlide(t *testing.T) {
	path := t.TempDir() + "/empty.pptx"
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	zw := zip.NewWriter(f)
	zw.Close()
	f.Close()

	if _, err := ReadLayoutSlide(path); err == nil {
		t.Fatal("expected error for archive without slides")
	}
}

func TestReadLayoutSlide_NotAZip(t *testing.T) {
	path := t.TempDir() + "/broken.pptx"
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := ReadLayoutSlide(path); err == nil {
		t.Fatal("expected error for non-zip artifact")
	}
}
