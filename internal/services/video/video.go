// Package video assembles slide images and a narration track into an MP4 with ffmpeg
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// execCommand allows us to mock exec.CommandContext in tests
var execCommand = exec.CommandContext

var frameSizes = map[production.Variant]struct{ width, height int }{
	production.VariantLong:  {1920, 1080},
	production.VariantShort: {1080, 1920},
}

// Assembler builds videos with ffmpeg and measures narration with ffprobe
type Assembler struct {
	fps             int
	minSlideSeconds float64
	music           string
	musicVolume     float64
}

var _ production.Assembler = (*Assembler)(nil)

// NewAssembler creates an Assembler from the video configuration
func NewAssembler(cfg config.VideoConfig) *Assembler {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 24
	}
	return &Assembler{
		fps:             fps,
		minSlideSeconds: cfg.MinSlideSeconds,
		music:           cfg.BackgroundMusic,
		musicVolume:     cfg.MusicVolume,
	}
}

// Assemble shows every image for an equal share of the narration and muxes in the audio.
// The background music, when configured, loops under the narration and ends with it.
func (a *Assembler) Assemble(ctx context.Context, images []string, audioPath, destPath string, variant production.Variant) error {
	if len(images) == 0 {
		return errors.New("no slide images to assemble")
	}
	size, ok := frameSizes[variant]
	if !ok {
		return fmt.Errorf("unknown video variant %q", variant)
	}

	duration, err := a.probeDuration(ctx, audioPath)
	if err != nil {
		return err
	}
	perSlide := a.slideDuration(duration, len(images))
	utils.LogVerbose("Narration %.1fs, %d slides at %.2fs each", duration, len(images), perSlide)

	listPath := filepath.Join(filepath.Dir(destPath), "concat_"+strings.TrimSuffix(filepath.Base(destPath), filepath.Ext(destPath))+".txt")
	if err := os.WriteFile(listPath, []byte(concatList(images, perSlide)), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer func() {
		_ = os.Remove(listPath)
	}()

	args := a.ffmpegArgs(listPath, audioPath, destPath, size.width, size.height)

	utils.LogDebug("Running ffmpeg %s", strings.Join(args, " "))
	cmd := execCommand(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			utils.LogError("FFmpeg error: %s", strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("ffmpeg command failed: %w", err)
	}

	if !utils.FileExists(destPath) {
		return fmt.Errorf("ffmpeg did not produce %s", destPath)
	}
	utils.LogVerbose("🎬 Video saved to %s", destPath)
	return nil
}

func (a *Assembler) ffmpegArgs(listPath, audioPath, destPath string, width, height int) []string {
	graph := fmt.Sprintf("[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,fps=%d,format=yuv420p[vout]",
		width, height, width, height, a.fps)
	audioMap := "1:a"

	args := []string{
		"-y", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-i", audioPath,
	}
	if music := a.backgroundMusic(); music != "" {
		args = append(args, "-stream_loop", "-1", "-i", music)
		graph += fmt.Sprintf(";[2:a]volume=%s[bg];[1:a][bg]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[aout]",
			strconv.FormatFloat(a.musicVolume, 'f', -1, 64))
		audioMap = "[aout]"
	}

	return append(args,
		"-filter_complex", graph,
		"-map", "[vout]", "-map", audioMap,
		"-c:v", "libx264", "-preset", "medium", "-tune", "stillimage",
		"-c:a", "aac", "-b:a", "192k",
		"-shortest", "-movflags", "+faststart",
		destPath,
	)
}

// backgroundMusic returns the music track to mix in, or "" when none is usable
func (a *Assembler) backgroundMusic() string {
	if a.music == "" || a.musicVolume <= 0 {
		return ""
	}
	if !utils.FileExists(a.music) {
		utils.LogWarning("Background music not found at %s, skipping music", a.music)
		return ""
	}
	return a.music
}

// probeDuration returns the length of a media file in seconds
func (a *Assembler) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := execCommand(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed on %s: %w", path, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	if duration <= 0 || math.IsNaN(duration) {
		return 0, fmt.Errorf("narration %s has no duration", path)
	}
	return duration, nil
}

func (a *Assembler) slideDuration(total float64, slides int) float64 {
	per := total / float64(slides)
	if per < a.minSlideSeconds {
		return a.minSlideSeconds
	}
	return math.Round(per*1000) / 1000
}

// concatList renders an ffmpeg concat demuxer script. The last image is listed twice so its
// duration is honoured.
func concatList(images []string, seconds float64) string {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, img := range images {
		fmt.Fprintf(&b, "file '%s'\nduration %s\n", escapeQuote(absPath(img)), strconv.FormatFloat(seconds, 'f', -1, 64))
	}
	fmt.Fprintf(&b, "file '%s'\n", escapeQuote(absPath(images[len(images)-1])))
	return b.String()
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func escapeQuote(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
