package media

import "context"

// Toolkit wraps the ffmpeg/ffprobe operations the pipeline needs.
type Toolkit interface {
	Probe(ctx context.Context, videoPath string) (VideoInfo, error)
	ExtractAudio(ctx context.Context, videoPath, destDir string) (string, error)
	SplitAudio(ctx context.Context, audioPath string, chunkSeconds int) ([]Chunk, error)
	SceneChanges(ctx context.Context, videoPath string, threshold float64) ([]float64, error)
	ExtractFrame(ctx context.Context, videoPath string, at float64, destPath string) error
}

// VideoInfo describes a probed video file.
type VideoInfo struct {
	Filename   string  `json:"filename"`
	FPS        float64 `json:"fps"`
	FrameCount int     `json:"frame_count"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Duration   float64 `json:"duration"`
}

// DurationMinutes is the duration rounded to two decimals.
func (v VideoInfo) DurationMinutes() float64 {
	return float64(int(v.Duration/60*100+0.5)) / 100
}

// Chunk is a piece of a longer audio file starting at Offset seconds.
type Chunk struct {
	Path   string
	Offset float64
}
