package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"vlingo/video-api/internal/model"
)

// ProbeVideo extracts technical metadata with ffprobe. The metadata is
// advisory: any failure returns zeroed values with just the file size set,
// never an error.
func ProbeVideo(p string) model.VideoMetadata {
	meta := model.VideoMetadata{}

	if stat, err := os.Stat(p); err == nil {
		meta.FileSize = stat.Size()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ffprobe := viper.GetString("ffprobe.path")
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		"-i", p,
	)

	var stdOut, stdErr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		zap.L().Warn("ffprobe failed, continuing with zeroed metadata",
			zap.Error(err),
			zap.String("stderr", stdErr.String()),
		)
		meta.DurationString = "0:00"
		return meta
	}

	var parsed struct {
		Streams []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			AvgFrameRate string `json:"avg_frame_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(stdOut.Bytes(), &parsed); err != nil {
		zap.L().Warn("Malformed ffprobe output, continuing with zeroed metadata", zap.Error(err))
		meta.DurationString = "0:00"
		return meta
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64); err == nil {
		meta.DurationSeconds = int(d)
	}

	if len(parsed.Streams) > 0 {
		s := parsed.Streams[0]
		meta.Width = s.Width
		meta.Height = s.Height
		meta.FPS = parseFrameRate(s.AvgFrameRate)
	}

	meta.DurationString = fmt.Sprintf("%d:%02d", meta.DurationSeconds/60, meta.DurationSeconds%60)
	return meta
}

// parseFrameRate handles ffprobe's fractional notation like "30000/1001"
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}

	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}

	return n / d
}
