package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Capture     CaptureConfig     `yaml:"capture"`
	Diagram     DiagramConfig     `yaml:"diagram"`
	Document    DocumentConfig    `yaml:"document"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
	Watcher     WatcherConfig     `yaml:"watcher"`
	Pricing     PricingConfig     `yaml:"pricing"`
}

// WhisperConfig configures the local whisper.cpp binary. Backend selects
// "local", "openai" or "auto" (local first, API on failure).
type WhisperConfig struct {
	Backend    string `yaml:"backend"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	// ChunkSeconds bounds each uploaded audio piece; the hosted Whisper
	// endpoint rejects files over 25MB.
	ChunkSeconds int `yaml:"chunk_seconds"`
}

type FFmpegConfig struct {
	BinaryPath      string `yaml:"binary_path"`
	ProbeBinaryPath string `yaml:"probe_binary_path"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
	Uploads  string `yaml:"uploads"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type GeminiConfig struct {
	APIKeys     []string `yaml:"api_keys"`
	Model       string   `yaml:"model"`
	Temperature float32  `yaml:"temperature"`
}

type CaptureConfig struct {
	Keywords       []string `yaml:"keywords"`
	SceneThreshold float64  `yaml:"scene_threshold"`
	MinInterval    float64  `yaml:"min_interval"`
	MaxScreenshots int      `yaml:"max_screenshots"`
	OCR            bool     `yaml:"ocr"`
	OCRBinaryPath  string   `yaml:"ocr_binary_path"`
	OCRLanguage    string   `yaml:"ocr_language"`
}

// DiagramConfig selects the process map renderer: "graphviz" or "mermaid".
type DiagramConfig struct {
	Renderer       string `yaml:"renderer"`
	DotBinaryPath  string `yaml:"dot_binary_path"`
	MmdcBinaryPath string `yaml:"mmdc_binary_path"`
}

// DocumentConfig styles rendered files. PDFFont/PDFFontBold point at UTF-8
// TrueType files; without them the PDF uses core Helvetica and text outside
// Windows-1252 is rejected.
type DocumentConfig struct {
	DOCXFont     string `yaml:"docx_font"`
	DOCXFontSize uint64 `yaml:"docx_font_size"`
	PDFFont      string `yaml:"pdf_font"`
	PDFFontBold  string `yaml:"pdf_font_bold"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadMB   int64  `yaml:"max_upload_mb"`
	ServiceName   string `yaml:"service_name"`
	EnableWatcher bool   `yaml:"enable_watcher"`
}

type WatcherConfig struct {
	Client string `yaml:"client"`
	Format string `yaml:"format"`
}

// PricingConfig holds the rates used to estimate spend. Token prices are per
// million tokens; Whisper is per audio minute.
type PricingConfig struct {
	GeminiInputPerMTok  float64 `yaml:"gemini_input_per_mtok"`
	GeminiOutputPerMTok float64 `yaml:"gemini_output_per_mtok"`
	WhisperAPIPerMinute float64 `yaml:"whisper_api_per_minute"`
}

var defaultKeywords = []string{
	"as you can see",
	"on the screen",
	"this screen",
	"let me show",
	"i'll show",
	"click on",
	"click here",
	"look at this",
	"here you can see",
	"this page",
	"this dashboard",
	"this report",
}

func (c *Config) Validate() error {
	switch c.Whisper.Backend {
	case "":
		c.Whisper.Backend = "local"
	case "local", "openai", "auto":
	default:
		return fmt.Errorf("whisper.backend must be one of local, openai, auto")
	}
	if c.Whisper.Backend != "openai" {
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	}
	if c.Whisper.Backend != "local" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required for whisper.backend %q", c.Whisper.Backend)
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.OpenAI.ChunkSeconds == 0 {
		c.OpenAI.ChunkSeconds = 600
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinaryPath == "" {
		c.FFmpeg.ProbeBinaryPath = "ffprobe"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	c.Gemini.Model = strings.TrimPrefix(c.Gemini.Model, "gemini/")
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.3
	}
	if len(c.Capture.Keywords) == 0 {
		c.Capture.Keywords = append([]string(nil), defaultKeywords...)
	}
	if c.Capture.SceneThreshold == 0 {
		c.Capture.SceneThreshold = 0.3
	}
	if c.Capture.MinInterval == 0 {
		c.Capture.MinInterval = 10
	}
	if c.Capture.MaxScreenshots == 0 {
		c.Capture.MaxScreenshots = 30
	}
	if c.Capture.OCRBinaryPath == "" {
		c.Capture.OCRBinaryPath = "tesseract"
	}
	if c.Capture.OCRLanguage == "" {
		c.Capture.OCRLanguage = "eng"
	}
	switch c.Diagram.Renderer {
	case "":
		c.Diagram.Renderer = "graphviz"
	case "graphviz", "mermaid":
	default:
		return fmt.Errorf("diagram.renderer must be graphviz or mermaid")
	}
	if c.Diagram.DotBinaryPath == "" {
		c.Diagram.DotBinaryPath = "dot"
	}
	if c.Diagram.MmdcBinaryPath == "" {
		c.Diagram.MmdcBinaryPath = "mmdc"
	}
	if c.Document.DOCXFont == "" {
		c.Document.DOCXFont = "Times New Roman"
	}
	if c.Document.DOCXFontSize == 0 {
		c.Document.DOCXFontSize = 13
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/mdoc.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 2048
	}
	if c.Server.ServiceName == "" {
		c.Server.ServiceName = "MDoc API"
	}
	if c.Watcher.Client == "" {
		c.Watcher.Client = "Internal"
	}
	if c.Watcher.Format == "" {
		c.Watcher.Format = "DOCX"
	}
	if c.Pricing.GeminiInputPerMTok == 0 {
		c.Pricing.GeminiInputPerMTok = 0.30
	}
	if c.Pricing.GeminiOutputPerMTok == 0 {
		c.Pricing.GeminiOutputPerMTok = 2.50
	}
	if c.Pricing.WhisperAPIPerMinute == 0 {
		c.Pricing.WhisperAPIPerMinute = 0.006
	}

	return nil
}
