package image

import (
	"context"
	"hash/fnv"
	stdimage "image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderSize   = 512
	placeholderMargin = 16
)

// Placeholder renders the prompt text on a gradient. It needs no credentials
// and is meant for local development when no model is configured.
type Placeholder struct{}

// NewPlaceholder returns the offline renderer.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Name identifies the backend in logs.
func (p *Placeholder) Name() string {
	return ProviderPlaceholder
}

// Synthesize draws prompt onto a PNG.
func (p *Placeholder) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, placeholderSize, placeholderSize))
	from, to := gradientColors(prompt)
	for y := 0; y < placeholderSize; y++ {
		c := blend(from, to, float64(y)/float64(placeholderSize-1))
		for x := 0; x < placeholderSize; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  stdimage.NewUniform(color.White),
		Face: face,
	}
	maxChars := (placeholderSize - 2*placeholderMargin) / face.Advance
	lineHeight := face.Height + 4
	y := placeholderMargin + face.Ascent
	for _, line := range wrapText(strings.TrimSpace(prompt), maxChars) {
		if y > placeholderSize-placeholderMargin {
			break
		}
		drawer.Dot = fixed.P(placeholderMargin, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	return EncodePNG(img)
}

func gradientColors(prompt string) (color.RGBA, color.RGBA) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	sum := h.Sum32()
	from := color.RGBA{R: uint8(sum >> 24), G: uint8(sum >> 16), B: uint8(sum >> 8), A: 0xff}
	to := color.RGBA{R: from.B / 3, G: from.R / 3, B: from.G / 3, A: 0xff}
	return from, to
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

var _ Synthesizer = (*Placeholder)(nil)
