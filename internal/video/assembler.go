// Package video provides the slideshow assembler for the blog-video-service.
//
// Assembly shells out to ffprobe for the narration duration and to ffmpeg for
// encoding: the audio duration is divided evenly across all slides, every
// slide is scaled to a fixed output width with its aspect ratio preserved, and
// the result is encoded once with a widely compatible codec pair.
package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/logger"
)

// External binaries.
const (
	ffmpegBinary  = "ffmpeg"
	ffprobeBinary = "ffprobe"
)

// File permissions for the concat list artifact.
const listFilePermissions = 0o600

// Static errors.
var (
	ErrNoImages       = errors.New("no images to assemble")
	ErrAudioPathEmpty = errors.New("audio path cannot be empty")
	ErrBadDuration    = errors.New("audio duration is not positive")
)

// Assembler encodes slide images and a narration track into one video file.
type Assembler struct {
	log         *logger.Logger
	outputWidth int
	frameRate   int
}

// NewAssembler creates an assembler with the given output profile.
func NewAssembler(outputWidth, frameRate int, log *logger.Logger) *Assembler {
	return &Assembler{
		log:         log,
		outputWidth: outputWidth,
		frameRate:   frameRate,
	}
}

// SlideDuration returns the number of seconds each slide is shown for: the
// total narration duration divided evenly across the slides, with the slide
// count floored at one.
func SlideDuration(totalSeconds float64, slideCount int) float64 {
	if slideCount < 1 {
		slideCount = 1
	}

	return totalSeconds / float64(slideCount)
}

// Assemble probes the narration duration, times the slides evenly across it,
// and encodes imagePaths plus audioPath into outputPath. The returned value is
// the narration duration in seconds.
func (a *Assembler) Assemble(ctx context.Context, imagePaths []string, audioPath, outputPath string) (float64, error) {
	if len(imagePaths) == 0 {
		return 0, ErrNoImages
	}

	if audioPath == "" {
		return 0, ErrAudioPathEmpty
	}

	duration, err := a.probeDuration(ctx, audioPath)
	if err != nil {
		return 0, fmt.Errorf("failed to probe audio duration: %w", err)
	}

	perSlide := SlideDuration(duration, len(imagePaths))

	listPath := outputPath + ".txt"

	err = os.WriteFile(listPath, []byte(BuildConcatList(imagePaths, perSlide)), listFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to write concat list: %w", err)
	}

	defer func() {
		removeErr := os.Remove(listPath)
		if removeErr != nil {
			a.log.Warn("Failed to remove concat list '%s': %v", listPath, removeErr)
		}
	}()

	err = a.encode(ctx, listPath, audioPath, outputPath)
	if err != nil {
		return 0, err
	}

	a.log.Info("Assembled %d slides over %.2fs into %s", len(imagePaths), duration, outputPath)

	return duration, nil
}

// probeDuration returns the duration of the audio file in seconds.
func (a *Assembler) probeDuration(ctx context.Context, audioPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	// #nosec G204 -- audioPath is a service-owned temp file
	cmd := exec.CommandContext(ctx, ffprobeBinary, args...)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output %q: %w", string(output), err)
	}

	if duration <= 0 {
		return 0, ErrBadDuration
	}

	return duration, nil
}

// BuildConcatList renders a concat-demuxer list that shows every image for the
// same perSlide seconds. The final image is repeated without a duration so the
// demuxer holds it until the stream ends.
func BuildConcatList(imagePaths []string, perSlide float64) string {
	var builder strings.Builder

	for _, path := range imagePaths {
		fmt.Fprintf(&builder, "file '%s'\n", escapeConcatPath(path))
		fmt.Fprintf(&builder, "duration %.3f\n", perSlide)
	}

	fmt.Fprintf(&builder, "file '%s'\n", escapeConcatPath(imagePaths[len(imagePaths)-1]))

	return builder.String()
}

// escapeConcatPath escapes single quotes for the concat demuxer's quoted form.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// encode runs the single fixed encoding profile.
func (a *Assembler) encode(ctx context.Context, listPath, audioPath, outputPath string) error {
	scaleFilter := fmt.Sprintf("scale=%d:-2", a.outputWidth)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", audioPath,
		"-vf", scaleFilter,
		"-r", strconv.Itoa(a.frameRate),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}

	// #nosec G204 -- all arguments are service-owned temp paths and fixed flags
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg execution failed: %w - output: %s", err, string(output))
	}

	return nil
}
