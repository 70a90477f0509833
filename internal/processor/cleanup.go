package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive moves a processed video into the archive folder, falling back to
// copy and remove when the folders sit on different devices.
func (p *implProcessor) Archive(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(videoPath))

	p.logger.Info(ctx, "Moving to archive folder: %s -> %s", videoPath, destPath)

	if err := os.Rename(videoPath, destPath); err == nil {
		return destPath, nil
	}
	if err := copyFile(videoPath, destPath); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	if err := os.Remove(videoPath); err != nil {
		p.logger.Warn(ctx, "Archived copy made but source not removed %s: %v", videoPath, err)
	}
	return destPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return out.Close()
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

func (p *implProcessor) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	}
}
