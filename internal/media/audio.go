package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ExtractAudio extracts audio from video file and converts to 16kHz mono WAV
// This format is optimal for Whisper processing
func (t *implToolkit) ExtractAudio(ctx context.Context, videoPath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(destDir, fmt.Sprintf("%s_%d.wav", base, time.Now().UnixNano()))

	t.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",          // No video
		"-ar", "16000", // 16kHz sample rate
		"-ac", "1", // Mono
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	t.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}

// SplitAudio cuts audioPath into consecutive pieces of at most chunkSeconds.
// A file that already fits is returned as a single chunk without copying.
func (t *implToolkit) SplitAudio(ctx context.Context, audioPath string, chunkSeconds int) ([]Chunk, error) {
	duration, err := t.audioDuration(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	if chunkSeconds <= 0 || duration <= float64(chunkSeconds) {
		return []Chunk{{Path: audioPath}}, nil
	}

	n := int(math.Ceil(duration / float64(chunkSeconds)))
	prefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	chunks := make([]Chunk, 0, n)

	for i := 0; i < n; i++ {
		start := float64(i * chunkSeconds)
		chunkPath := fmt.Sprintf("%s_chunk_%d.wav", prefix, i)
		args := []string{
			"-i", audioPath,
			"-ss", strconv.FormatFloat(start, 'f', 3, 64),
			"-t", strconv.Itoa(chunkSeconds),
			"-c:a", "pcm_s16le",
			"-ar", "16000",
			"-ac", "1",
			"-y",
			chunkPath,
		}
		if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
			for _, c := range chunks {
				os.Remove(c.Path)
			}
			return nil, fmt.Errorf("create audio chunk %d: %w", i, err)
		}
		chunks = append(chunks, Chunk{Path: chunkPath, Offset: start})
	}

	t.logger.Debug(ctx, "Split %s into %d chunks", audioPath, len(chunks))
	return chunks, nil
}

func (t *implToolkit) audioDuration(ctx context.Context, path string) (float64, error) {
	out, err := t.executor.Execute(ctx, t.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("get audio duration: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse audio duration %q: %w", strings.TrimSpace(out), err)
	}
	return d, nil
}
