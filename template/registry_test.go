package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplate(t *testing.T, root, dir, descriptor string, withLayout bool) {
	t.Helper()
	tdir := filepath.Join(root, dir)
	if err := os.MkdirAll(tdir, 0755); err != nil {
		t.Fatalf("failed to create template dir: %v", err)
	}
	if descriptor != "" {
		if err := os.WriteFile(filepath.Join(tdir, "template.json"), []byte(descriptor), 0644); err != nil {
			t.Fatalf("failed to write descriptor: %v", err)
		}
	}
	if withLayout {
		if err := os.WriteFile(filepath.Join(tdir, "template.pptx"), []byte("placeholder"), 0644); err != nil {
			t.Fatalf("failed to write layout: %v", err)
		}
	}
}

func TestLoad_MissingRootIsFatal(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "absent"), nil)
	if err := r.Load(); err == nil {
		t.Fatal("expected error for missing templates root")
	}
}

func TestLoad_SkipsMalformedDescriptor(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "good", `{"template_name":"good","description":"d","use_case_examples":["x"],"objects":[{"type":"text","name":"title","role":"heading"}]}`, true)
	writeTemplate(t, root, "broken", `{"template_name": not json`, true)
	writeTemplate(t, root, "empty", "", true)

	var logged []string
	r := NewRegistry(root, func(msg string) { logged = append(logged, msg) })
	if err := r.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := r.Names()
	if len(names) != 1 || names[0] != "good" {
		t.Errorf("expected only the good template, got %v", names)
	}

	found := false
	for _, msg := range logged {
		if strings.Contains(msg, "broken") {
			found = true
		}
	}
	if !found {
		t.Error("expected malformed descriptor to be logged")
	}
}

func TestGetAndNames(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "1カラムテキスト", `{"template_name":"1カラムテキスト","description":"one column","use_case_examples":["本文"],"objects":[{"type":"text","name":"title","role":"タイトル"},{"type":"text","name":"main_text","role":"本文"}]}`, true)

	r := NewRegistry(root, nil)
	if err := r.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	desc, ok := r.Get("1カラムテキスト")
	if !ok {
		t.Fatal("expected template to be present")
	}
	if len(desc.Objects) != 2 || desc.Objects[1].Name != "main_text" {
		t.Errorf("unexpected objects: %+v", desc.Objects)
	}

	if _, ok := r.Get("does not exist"); ok {
		t.Error("expected absent result for unknown template")
	}
}

func TestLayoutPath(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "with_layout", `{"template_name":"with_layout","description":"","use_case_examples":[],"objects":[]}`, true)
	writeTemplate(t, root, "no_layout", `{"template_name":"no_layout","description":"","use_case_examples":[],"objects":[]}`, false)

	r := NewRegistry(root, nil)
	if err := r.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, ok := r.LayoutPath("with_layout")
	if !ok {
		t.Fatal("expected layout path to resolve")
	}
	if filepath.Base(path) != "template.pptx" {
		t.Errorf("unexpected layout path: %s", path)
	}

	if _, ok := r.LayoutPath("no_layout"); ok {
		t.Error("expected absent layout for template without artifact")
	}
	if _, ok := r.LayoutPath("unknown"); ok {
		t.Error("expected absent layout for unknown template")
	}
}

func TestDescribeForPrompt(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "エンドスライド", `{"template_name":"エンドスライド","description":"closing slide","use_case_examples":["締め","終わり"],"objects":[{"type":"text","name":"end_message","role":"締めの言葉"}]}`, true)

	r := NewRegistry(root, nil)
	if err := r.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := r.DescribeForPrompt()
	for _, want := range []string{"エンドスライド", "closing slide", "締め, 終わり", "end_message (text): 締めの言葉"} {
		if !strings.Contains(info, want) {
			t.Errorf("prompt description missing %q:\n%s", want, info)
		}
	}
}
