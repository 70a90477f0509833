package media

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads stream geometry, frame rate and duration with ffprobe.
func (t *implToolkit) Probe(ctx context.Context, videoPath string) (VideoInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,r_frame_rate,nb_frames:format=duration",
		"-of", "json",
		videoPath,
	}

	out, err := t.executor.Execute(ctx, t.ffprobe, args...)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	info, err := parseProbe(out)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	info.Filename = filepath.Base(videoPath)
	return info, nil
}

func parseProbe(out string) (VideoInfo, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return VideoInfo{}, err
	}
	if len(p.Streams) == 0 {
		return VideoInfo{}, fmt.Errorf("no video stream")
	}

	s := p.Streams[0]
	info := VideoInfo{
		Width:  s.Width,
		Height: s.Height,
		FPS:    parseRate(s.AvgFrameRate),
	}
	if info.FPS == 0 {
		info.FPS = parseRate(s.RFrameRate)
	}
	info.Duration, _ = strconv.ParseFloat(p.Format.Duration, 64)

	// Matroska and WebM containers don't carry a frame count.
	if n, err := strconv.Atoi(s.NbFrames); err == nil {
		info.FrameCount = n
	} else {
		info.FrameCount = int(info.FPS * info.Duration)
	}
	return info, nil
}

// parseRate turns ffprobe's "30000/1001" into frames per second.
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
