// Package videoops implements the video operations by driving ffmpeg and
// ffprobe through the toolexec facade.
package videoops

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/fsutil"
	"github.com/dvirzg/Forge/internal/quality"
	"github.com/dvirzg/Forge/internal/toolexec"
)

// Defaults for GIF conversion when the caller leaves them unset.
const (
	DefaultGIFFPS   = 10
	DefaultGIFWidth = 480
)

// timestampRe matches the HH:MM:SS(.fraction) trim timestamps ffmpeg
// accepts for -ss/-to.
var timestampRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?$`)

// Service performs video operations.
type Service struct {
	log     *slog.Logger
	ffmpeg  toolexec.Invoker
	ffprobe toolexec.Invoker
	tempDir string
}

// New creates a video service. tempDir holds intermediate files (GIF
// palettes); empty means the OS temp directory.
func New(log *slog.Logger, ffmpeg, ffprobe toolexec.Invoker, tempDir string) *Service {
	return &Service{
		log:     log.With("component", "videoops"),
		ffmpeg:  ffmpeg,
		ffprobe: ffprobe,
		tempDir: tempDir,
	}
}

func validateTimestamp(param, value string) error {
	if !timestampRe.MatchString(value) {
		return &errors.UnsupportedParamError{
			Param:   param,
			Value:   value,
			Allowed: []string{"HH:MM:SS"},
		}
	}

	return nil
}

// Trim cuts the segment between start and end (HH:MM:SS) without
// re-encoding.
func (s *Service) Trim(ctx context.Context, inPath, outPath, start, end string) error {
	if err := validateTimestamp("start_time", start); err != nil {
		return err
	}

	if err := validateTimestamp("end_time", end); err != nil {
		return err
	}

	_, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-ss", start,
		"-to", end,
		"-c", "copy",
		"-y",
		outPath,
	)

	return err
}

// StripAudio removes all audio streams without re-encoding video.
func (s *Service) StripAudio(ctx context.Context, inPath, outPath string) error {
	_, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-c", "copy",
		"-an",
		"-y",
		outPath,
	)

	return err
}

// Scale resizes the video to width x height, copying the audio stream.
func (s *Service) Scale(ctx context.Context, inPath, outPath string, width, height int) error {
	if width <= 0 || height <= 0 {
		return &errors.UnsupportedParamError{
			Param: "dimensions",
			Value: fmt.Sprintf("%dx%d", width, height),
		}
	}

	_, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-c:a", "copy",
		"-y",
		outPath,
	)

	return err
}

// Compress re-encodes with libx264 using the CRF and preset of the given
// quality level.
func (s *Service) Compress(ctx context.Context, inPath, outPath string, level quality.Level) error {
	params := level.Video()

	_, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(params.CRF),
		"-preset", params.Preset,
		"-c:a", "copy",
		"-y",
		outPath,
	)

	return err
}

// ToGIF converts the video to an animated GIF with a two-pass
// palettegen/paletteuse pipeline. The intermediate palette image is removed
// whether or not the second pass succeeds.
func (s *Service) ToGIF(ctx context.Context, inPath, outPath string, fps, width int) error {
	if fps <= 0 {
		fps = DefaultGIFFPS
	}

	if width <= 0 {
		width = DefaultGIFWidth
	}

	palette := fsutil.TempPath(s.tempDir, "palette", "png")
	defer fsutil.RemoveQuietly(palette)

	paletteFilter := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos,palettegen", fps, width)
	if _, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-vf", paletteFilter,
		"-y",
		palette,
	); err != nil {
		return err
	}

	gifFilter := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos[x];[x][1:v]paletteuse", fps, width)

	_, err := s.ffmpeg.RunChecked(ctx,
		"-i", inPath,
		"-i", palette,
		"-lavfi", gifFilter,
		"-y",
		outPath,
	)

	return err
}

// probeOutput mirrors the ffprobe -print_format json fields we read.
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Metadata probes the container and first video stream.
func (s *Service) Metadata(ctx context.Context, inPath string) (map[string]any, error) {
	res, err := s.ffprobe.RunChecked(ctx,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inPath,
	)
	if err != nil {
		return nil, err
	}

	var probe probeOutput
	if err := json.Unmarshal(res.Stdout, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	payload := map[string]any{
		"format":   probe.Format.FormatName,
		"duration": probe.Format.Duration,
		"bit_rate": probe.Format.BitRate,
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			payload["codec"] = stream.CodecName
			payload["width"] = stream.Width
			payload["height"] = stream.Height

			break
		}
	}

	if info, err := fsutil.Stat(inPath); err == nil {
		payload["size"] = info.Size
		payload["modified"] = info.Modified
	}

	return payload, nil
}
