package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder dimensions and layout.
const (
	placeholderWidth  = 1280
	placeholderHeight = 720
	textMargin        = 120
	lineSpacing       = 6
)

// Placeholder colors.
var (
	placeholderBackground = color.RGBA{R: 0x20, G: 0x24, B: 0x2B, A: 0xFF}
	placeholderForeground = color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}
)

// GeneratePlaceholder renders the post title centered on a dark canvas and
// writes it to path as PNG. It is the slide of last resort when no source
// image could be acquired.
func GeneratePlaceholder(title, path string) error {
	canvas := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lines := wrapTitle(title, face, placeholderWidth-2*textMargin)

	lineHeight := face.Metrics().Height.Ceil() + lineSpacing
	blockHeight := lineHeight * len(lines)
	startY := (placeholderHeight-blockHeight)/2 + face.Metrics().Ascent.Ceil()

	for index, line := range lines {
		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(placeholderForeground),
			Face: face,
		}

		lineWidth := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((placeholderWidth-lineWidth)/2, startY+index*lineHeight)
		drawer.DrawString(line)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create placeholder file %s: %w", path, err)
	}

	encodeErr := png.Encode(file, canvas)
	closeErr := file.Close()

	if encodeErr != nil {
		return fmt.Errorf("failed to encode placeholder image: %w", encodeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close placeholder file: %w", closeErr)
	}

	return nil
}

// wrapTitle breaks the title into lines that fit maxWidth pixels. A title that
// is blank still yields one drawable line.
func wrapTitle(title string, face font.Face, maxWidth int) []string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return []string{" "}
	}

	drawer := &font.Drawer{Face: face}

	var (
		lines   []string
		current string
	)

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if drawer.MeasureString(candidate).Ceil() <= maxWidth || current == "" {
			current = candidate

			continue
		}

		lines = append(lines, current)
		current = word
	}

	lines = append(lines, current)

	return lines
}
