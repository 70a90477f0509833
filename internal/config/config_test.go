package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
					Language:   "en",
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "missing model path",
			config: Config{
				Whisper: WhisperConfig{
					BinaryPath: "./whisper",
					Language:   "en",
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "openai backend needs no local model",
			config: Config{
				Whisper: WhisperConfig{Backend: "openai"},
				OpenAI:  OpenAIConfig{APIKey: "sk-test"},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "auto backend without api key",
			config: Config{
				Whisper: WhisperConfig{
					Backend:    "auto",
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			config: Config{
				Whisper: WhisperConfig{Backend: "cloud"},
			},
			wantErr: true,
		},
		{
			name: "unknown diagram renderer",
			config: Config{
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
				Diagram: DiagramConfig{Renderer: "plantuml"},
			},
			wantErr: true,
		},
		{
			name: "missing paths",
			config: Config{
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
					Language:   "en",
				},
				Paths: PathsConfig{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Whisper: WhisperConfig{
			ModelPath:  "models/test.bin",
			BinaryPath: "./whisper",
		},
		Paths:  PathsConfig{Input: "in", Output: "out"},
		Gemini: GeminiConfig{Model: "gemini/gemini-1.5-pro"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Whisper.Backend != "local" {
		t.Errorf("Backend = %q, want local", cfg.Whisper.Backend)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q, want provider prefix stripped", cfg.Gemini.Model)
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Performance.MaxConcurrent)
	}
	if cfg.Capture.MinInterval != 10 || cfg.Capture.MaxScreenshots != 30 {
		t.Errorf("capture defaults = %+v", cfg.Capture)
	}
	if diff := cmp.Diff(defaultKeywords, cfg.Capture.Keywords); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.ServiceName != "MDoc API" {
		t.Errorf("ServiceName = %q", cfg.Server.ServiceName)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
  language: "en"
  prompt: "test"

paths:
  input: "data/input"
  output: "data/output"

gemini:
  api_keys: ["from-file"]

logging:
  level: "info"
  format: "text"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEYS", "key-a,key-b")
	t.Setenv("MDOC_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.ModelPath != "models/test.bin" {
		t.Errorf("ModelPath = %v, want %v", cfg.Whisper.ModelPath, "models/test.bin")
	}
	if cfg.Paths.Input != "data/input" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "data/input")
	}
	if diff := cmp.Diff([]string{"key-a", "key-b"}, cfg.Gemini.APIKeys); diff != "" {
		t.Errorf("APIKeys mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadGeminiKeysFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
paths:
  input: "in"
  output: "out"
gemini:
  api_keys: ["from-file"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		keys   string
		single string
		want   []string
	}{
		{"spaces after commas", "key-one, key-two ,key-three", "", []string{"key-one", "key-two", "key-three"}},
		{"only separators keeps file keys", " , ,", "", []string{"from-file"}},
		{"only separators falls back to single key", ",", " key-solo ", []string{"key-solo"}},
		{"unset keeps file keys", "", "", []string{"from-file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEYS", tt.keys)
			t.Setenv("GEMINI_API_KEY", tt.single)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, cfg.Gemini.APIKeys); diff != "" {
				t.Errorf("APIKeys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadExampleConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("Load(config.example.yaml) error = %v", err)
	}
	if cfg.Whisper.Backend != "local" {
		t.Errorf("Backend = %q, want local", cfg.Whisper.Backend)
	}
}
