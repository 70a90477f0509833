package media

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var rePtsTime = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// SceneChanges returns the timestamps (seconds) of frames whose scene score
// exceeds threshold. ffmpeg's metadata filter prints the selected frames on
// stdout, which keeps the input path out of the filtergraph.
func (t *implToolkit) SceneChanges(ctx context.Context, videoPath string, threshold float64) ([]float64, error) {
	filter := fmt.Sprintf("select='gt(scene,%s)',metadata=print:file=-",
		strconv.FormatFloat(threshold, 'f', -1, 64))

	args := []string{
		"-hide_banner",
		"-i", videoPath,
		"-vf", filter,
		"-an",
		"-f", "null",
		"-",
	}

	t.logger.Info(ctx, "Detecting scene changes (threshold %.2f): %s", threshold, videoPath)

	out, err := t.executor.Execute(ctx, t.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg scene detection: %w", err)
	}

	times := parseSceneOutput(out)
	t.logger.Info(ctx, "Detected %d scene changes", len(times))
	return times, nil
}

func parseSceneOutput(out string) []float64 {
	var times []float64
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		m := rePtsTime.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			times = append(times, v)
		}
	}
	sort.Float64s(times)
	return times
}

// ExtractFrame writes the frame at `at` seconds to destPath.
func (t *implToolkit) ExtractFrame(ctx context.Context, videoPath string, at float64, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create frame dir: %w", err)
	}

	args := []string{
		"-ss", strconv.FormatFloat(at, 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		destPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg extract frame at %.2fs: %w", at, err)
	}
	return nil
}
