package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// EncodeLogo reads an image, scales it to widthPx keeping the aspect
// ratio, and returns it as base64-encoded PNG.
func EncodeLogo(path string, widthPx int) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading logo: %w", err)
	}

	src, err := decodeImage(raw)
	if err != nil {
		return "", fmt.Errorf("decoding logo %s: %w", path, err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("logo %s is empty", path)
	}
	if widthPx <= 0 {
		widthPx = b.Dx()
	}
	heightPx := b.Dy() * widthPx / b.Dx()
	if heightPx < 1 {
		heightPx = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, stddraw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return "", fmt.Errorf("encoding logo: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

func decodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}
