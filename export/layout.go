// Package export renders decided slides into a PowerPoint file. Template
// layout artifacts are read shape-by-shape from their pptx slide XML; output
// is written with GoPPT.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// LayoutShape is one shape of a template layout slide. Geometry is in EMU,
// taken verbatim from the slide XML. Text-bearing shapes carry the
// template-default text used as the content-mapping key.
type LayoutShape struct {
	HasText bool
	Text    string
	Left    int64
	Top     int64
	Width   int64
	Height  int64
}

// LayoutSlide is the single slide of a template layout artifact.
type LayoutSlide struct {
	Shapes []LayoutShape
}

// ReadLayoutSlide opens a pptx layout artifact and parses its first slide.
func ReadLayoutSlide(path string) (*LayoutSlide, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout %s: %w", path, err)
	}
	defer zr.Close()

	data, err := readZipFile(&zr.Reader, "ppt/slides/slide1.xml")
	if err != nil {
		return nil, fmt.Errorf("no slides found in layout %s: %w", path, err)
	}

	shapes, err := parseSlideXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout slide of %s: %w", path, err)
	}
	return &LayoutSlide{Shapes: shapes}, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, file := range zr.File {
		if file.Name == name {
			rc, err := file.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()

			buf := new(bytes.Buffer)
			if _, err := io.Copy(buf, rc); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("file %s not found in archive", name)
}

// parseSlideXML walks a slide's XML and collects its top-level shapes.
// Shape elements (sp) with a text body are text shapes; pictures and other
// drawable elements come back as non-text shapes with geometry only.
func parseSlideXML(data []byte) ([]LayoutShape, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var shapes []LayoutShape
	var current *LayoutShape
	var currentName string
	inTextBody := false
	inText := false
	var text strings.Builder
	paragraphs := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		switch element := tok.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "sp", "pic", "graphicFrame", "cxnSp":
				if current == nil {
					current = &LayoutShape{}
					currentName = element.Name.Local
					inTextBody = false
					text.Reset()
					paragraphs = 0
				}
			case "off":
				if current != nil && current.Width == 0 && current.Height == 0 {
					current.Left = attrInt64(element, "x")
					current.Top = attrInt64(element, "y")
				}
			case "ext":
				if current != nil && current.Width == 0 && current.Height == 0 {
					current.Width = attrInt64(element, "cx")
					current.Height = attrInt64(element, "cy")
				}
			case "txBody":
				if current != nil {
					current.HasText = true
					inTextBody = true
				}
			case "p":
				if inTextBody {
					if paragraphs > 0 {
						text.WriteString("\n")
					}
					paragraphs++
				}
			case "t":
				if inTextBody {
					inText = true
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "sp", "pic", "graphicFrame", "cxnSp":
				if current != nil && element.Name.Local == currentName {
					current.Text = text.String()
					shapes = append(shapes, *current)
					current = nil
				}
			case "txBody":
				inTextBody = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				text.Write(element)
			}
		}
	}

	return shapes, nil
}

func attrInt64(element xml.StartElement, name string) int64 {
	for _, attr := range element.Attr {
		if attr.Name.Local == name {
			v, err := strconv.ParseInt(attr.Value, 10, 64)
			if err == nil {
				return v
			}
		}
	}
	return 0
}
