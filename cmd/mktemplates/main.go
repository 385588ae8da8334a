// mktemplates generates the default template set: one directory per
// template with a template.json descriptor and a template.pptx single-slide
// layout artifact. The artifacts are starting points; adjust the design in
// PowerPoint afterwards.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ppt "github.com/VantageDataChat/GoPPT"

	"slidegen/template"
)

const emuPerInch = 914400

func emu(inches float64) int64 {
	return int64(inches * emuPerInch)
}

// helper: set paragraph alignment to center
func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// layoutBox is one default textbox of a generated layout artifact.
type layoutBox struct {
	text   string
	left   float64
	top    float64
	width  float64
	height float64
	size   int
	bold   bool
	center bool
}

type templateDef struct {
	descriptor template.Descriptor
	boxes      []layoutBox
}

func defaultTemplates() []templateDef {
	return []templateDef{
		{
			descriptor: template.Descriptor{
				TemplateName:    "タイトルスライド",
				Description:     "プレゼンテーションの表紙となるタイトルスライド",
				UseCaseExamples: []string{"プレゼンテーションの冒頭", "セクションの区切り"},
				Objects: []template.PlaceholderSpec{
					{Type: template.ObjectText, Name: "title", Role: "プレゼンテーションのタイトル"},
					{Type: template.ObjectText, Name: "subtitle", Role: "サブタイトル"},
					{Type: template.ObjectText, Name: "presenter", Role: "発表者名"},
					{Type: template.ObjectText, Name: "date", Role: "発表日"},
				},
			},
			boxes: []layoutBox{
				{text: "title", left: 1, top: 2, width: 8, height: 1.5, size: 44, bold: true, center: true},
				{text: "subtitle", left: 1, top: 4, width: 8, height: 0.8, size: 24, center: true},
				{text: "presenter", left: 1, top: 5, width: 8, height: 0.6, size: 18, center: true},
				{text: "date", left: 1, top: 5.8, width: 8, height: 0.6, size: 16, center: true},
			},
		},
		{
			descriptor: template.Descriptor{
				TemplateName:    "1カラムテキスト",
				Description:     "タイトルと本文からなる標準的なテキストスライド",
				UseCaseExamples: []string{"説明や解説", "箇条書きの内容"},
				Objects: []template.PlaceholderSpec{
					{Type: template.ObjectText, Name: "title", Role: "スライドのタイトル"},
					{Type: template.ObjectText, Name: "main_text", Role: "本文"},
				},
			},
			boxes: []layoutBox{
				{text: "title", left: 0.5, top: 0.5, width: 9, height: 1, size: 32, bold: true},
				{text: "main_text", left: 0.5, top: 1.8, width: 9, height: 5, size: 18},
			},
		},
		{
			descriptor: template.Descriptor{
				TemplateName:    "リード文+1カラムテキスト",
				Description:     "リード文で要点を示してから本文を展開するスライド",
				UseCaseExamples: []string{"要点の強調", "結論を先に示す説明"},
				Objects: []template.PlaceholderSpec{
					{Type: template.ObjectText, Name: "title", Role: "スライドのタイトル"},
					{Type: template.ObjectText, Name: "lead", Role: "リード文（要点）"},
					{Type: template.ObjectText, Name: "main_text", Role: "本文"},
				},
			},
			boxes: []layoutBox{
				{text: "title", left: 0.5, top: 0.5, width: 9, height: 1, size: 32, bold: true},
				{text: "lead", left: 0.5, top: 1.8, width: 9, height: 1.2, size: 20, bold: true},
				{text: "main_text", left: 0.5, top: 3.2, width: 9, height: 3.5, size: 16},
			},
		},
		{
			descriptor: template.Descriptor{
				TemplateName:    "2カラム（画像＋テキスト）",
				Description:     "左に画像、右にテキストを配置する2カラムスライド",
				UseCaseExamples: []string{"図表の説明", "画像付きの解説"},
				Objects: []template.PlaceholderSpec{
					{Type: template.ObjectText, Name: "title", Role: "スライドのタイトル"},
					{Type: template.ObjectText, Name: "lead", Role: "リード文"},
					{Type: template.ObjectImage, Name: "left_image", Role: "画像エリア"},
					{Type: template.ObjectText, Name: "right_text", Role: "説明テキスト"},
				},
			},
			boxes: []layoutBox{
				{text: "title", left: 0.5, top: 0.5, width: 9, height: 1, size: 32, bold: true},
				{text: "lead", left: 0.5, top: 1.8, width: 9, height: 0.8, size: 18, bold: true},
				{text: "left_image", left: 0.5, top: 2.8, width: 4.2, height: 4, size: 16, center: true},
				{text: "right_text", left: 5.2, top: 2.8, width: 4.2, height: 4, size: 16},
			},
		},
		{
			descriptor: template.Descriptor{
				TemplateName:    "エンドスライド",
				Description:     "プレゼンテーションを締めくくるエンドスライド",
				UseCaseExamples: []string{"まとめ", "質疑応答への導入", "謝辞"},
				Objects: []template.PlaceholderSpec{
					{Type: template.ObjectText, Name: "end_message", Role: "締めのメッセージ"},
				},
			},
			boxes: []layoutBox{
				{text: "end_message", left: 1, top: 3, width: 8, height: 2, size: 36, bold: true, center: true},
			},
		},
	}
}

func writeLayout(path string, boxes []layoutBox) error {
	p := ppt.New()
	slide := p.GetActiveSlide()

	for _, box := range boxes {
		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(emu(box.left)).SetOffsetY(emu(box.top))
		shape.SetWidth(emu(box.width)).SetHeight(emu(box.height))

		tr := shape.CreateTextRun(box.text)
		tr.GetFont().SetSize(box.size).SetBold(box.bold)
		if box.center {
			alignCenter(shape.GetActiveParagraph())
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return fmt.Errorf("failed to create PPT writer: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return w.(*ppt.PPTXWriter).WriteTo(f)
}

func writeDescriptor(path string, desc template.Descriptor) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	dir := flag.String("dir", "templates", "templates root directory")
	flag.Parse()

	for _, def := range defaultTemplates() {
		tdir := filepath.Join(*dir, def.descriptor.TemplateName)
		if err := os.MkdirAll(tdir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", tdir, err)
			os.Exit(1)
		}

		fmt.Printf("Creating template: %s\n", def.descriptor.TemplateName)
		if err := writeDescriptor(filepath.Join(tdir, "template.json"), def.descriptor); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing descriptor: %v\n", err)
			os.Exit(1)
		}
		if err := writeLayout(filepath.Join(tdir, "template.pptx"), def.boxes); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing layout: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("テンプレートファイルの作成が完了しました。")
	fmt.Println("必要に応じてPowerPointでデザインを調整してください。")
}
