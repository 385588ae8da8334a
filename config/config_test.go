package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if cfg.ModelName != "gpt-4o" {
		t.Errorf("unexpected default model: %s", cfg.ModelName)
	}
	if cfg.DefaultTemplate != "1カラムテキスト" {
		t.Errorf("unexpected default template: %s", cfg.DefaultTemplate)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidegen.json")
	data := `{"modelName":"gpt-4o-mini","templatesDir":"/srv/templates","defaultTemplate":"エンドスライド"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ModelName != "gpt-4o-mini" {
		t.Errorf("model not overridden: %s", cfg.ModelName)
	}
	if cfg.TemplatesDir != "/srv/templates" {
		t.Errorf("templates dir not overridden: %s", cfg.TemplatesDir)
	}
	if cfg.DefaultTemplate != "エンドスライド" {
		t.Errorf("default template not overridden: %s", cfg.DefaultTemplate)
	}
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidegen.json")
	if err := os.WriteFile(path, []byte(`{"apiKey":"from-file"}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("environment must override stored key, got %s", cfg.APIKey)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidegen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slidegen.json")

	want := Default()
	want.APIKey = "sk-test"
	want.OutputDir = "/tmp/out"
	if err := Save(path, want); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.APIKey != "sk-test" || got.OutputDir != "/tmp/out" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
