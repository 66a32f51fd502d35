package storage

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	chaiwebp "github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Lado máximo del logo almacenado.
	maxLogoDimension = 512
	webpQuality      = 85
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// NormalizeLogo decodifica png/jpeg/webp, reduce a 512px máximo por lado y
// re-codifica como webp. Devuelve los bytes listos para subir.
func NormalizeLogo(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrUnsupportedImage
	}

	if w > maxLogoDimension || h > maxLogoDimension {
		scale := float64(maxLogoDimension) / float64(w)
		if h > w {
			scale = float64(maxLogoDimension) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := chaiwebp.Encode(&buf, src, &chaiwebp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
