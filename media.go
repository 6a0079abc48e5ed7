package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// brightnessThreshold splits dark images (light caption) from light ones
	brightnessThreshold = 127
	maxImageSize        = 32 * 1024 * 1024
	maxImagePixels      = 178956970 // ~179 megapixels, decompression bomb guard
	imageAccept         = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"
)

// ChooseFontColor downloads the preview image and picks a caption color that
// stays readable on top of it
func ChooseFontColor(ctx context.Context, f *Fetcher, imageURL string) (FontColor, error) {
	resp, err := f.Get(ctx, imageURL, imageAccept)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	img, format, err := decodeImage(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return "", fmt.Errorf("decoding image %s: %w", imageURL, err)
	}

	mean := AverageBrightness(img)
	fontColor := ClassifyBrightness(mean)
	slog.Debug("image brightness measured",
		"url", imageURL,
		"format", format,
		"mean", mean,
		"font_color", fontColor,
	)

	return fontColor, nil
}

// decodeImage checks the declared dimensions before decoding so a tiny file
// cannot claim a huge canvas
func decodeImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", errors.New("image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if img.Bounds().Empty() {
		return nil, "", errors.New("image has no pixels")
	}
	return img, format, nil
}

// AverageBrightness converts img to 8-bit grayscale and returns the mean
// pixel value on a 0-255 scale
func AverageBrightness(img image.Image) float64 {
	gray := toGray(img)
	b := gray.Bounds()
	if b.Empty() {
		return 0
	}

	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
		for _, v := range row {
			sum += uint64(v)
		}
	}

	return float64(sum) / float64(b.Dx()*b.Dy())
}

// ClassifyBrightness maps a mean brightness onto a caption color
func ClassifyBrightness(mean float64) FontColor {
	if mean < brightnessThreshold {
		return FontColorSnow
	}
	return FontColorBlack
}

// toGray ignores alpha: straight-alpha sources keep their stored RGB so a
// transparent white logo still reads as white
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)

	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Paletted:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				gray.SetGray(x, y, straightLuma(img.At(x, y)))
			}
		}
	default:
		draw.Draw(gray, b, img, b.Min, draw.Src)
	}
	return gray
}

// straightLuma applies the ITU-R 601 weights to non-premultiplied channels
func straightLuma(c color.Color) color.Gray {
	var r, g, b uint32
	switch c := c.(type) {
	case color.NRGBA:
		r, g, b = uint32(c.R)*0x101, uint32(c.G)*0x101, uint32(c.B)*0x101
	case color.NRGBA64:
		r, g, b = uint32(c.R), uint32(c.G), uint32(c.B)
	default:
		r, g, b, _ = c.RGBA()
	}
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	return color.Gray{Y: uint8(y)}
}
