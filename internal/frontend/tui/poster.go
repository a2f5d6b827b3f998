package tui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for TMDb images
	_ "image/png"
)

// Poster is what the terminal can show of an image: its dimensions and format.
type Poster struct {
	Width  int
	Height int
	Format string
}

// DecodePoster reads the image header. It reports false for data that is
// not a JPEG or PNG image.
func DecodePoster(data []byte) (Poster, bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Poster{}, false
	}
	return Poster{Width: cfg.Width, Height: cfg.Height, Format: format}, true
}

func (p Poster) String() string {
	return fmt.Sprintf("%dx%d %s", p.Width, p.Height, p.Format)
}
