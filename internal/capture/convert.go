package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/smazurov/touptek/pkg/toupcam"
)

// ErrRawFrame is returned when converting a raw sensor frame. Raw frames
// need debayering, which is not done here.
var ErrRawFrame = errors.New("capture: raw frames cannot be converted")

// ToImage converts a pulled frame to an image.Image. Channel order is RGB,
// the SDK default outside Windows. 8 bit frames become Gray, 24 and 32 bit
// become NRGBA and 48 bit become NRGBA64. The frame data is not retained.
func ToImage(img *toupcam.Image) (image.Image, error) {
	if img.Raw {
		return nil, ErrRawFrame
	}
	w, h := int(img.Resolution.Width), int(img.Resolution.Height)
	stride, err := toupcam.Stride(img.Bits, img.Resolution.Width)
	if err != nil {
		return nil, err
	}
	if len(img.Data) < stride*h {
		return nil, fmt.Errorf("capture: %dx%d %d bit frame needs %d bytes, have %d",
			w, h, img.Bits, stride*h, len(img.Data))
	}
	rect := image.Rect(0, 0, w, h)

	switch img.Bits {
	case 8:
		out := image.NewGray(rect)
		for y := range h {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], img.Data[y*stride:])
		}
		return out, nil
	case 24, 32:
		bpp := img.Bits / 8
		out := image.NewNRGBA(rect)
		for y := range h {
			src := img.Data[y*stride:]
			dst := out.Pix[y*out.Stride:]
			for x := range w {
				s, d := x*bpp, x*4
				dst[d], dst[d+1], dst[d+2] = src[s], src[s+1], src[s+2]
				// The fourth byte of a 32 bit pixel is padding.
				dst[d+3] = 0xff
			}
		}
		return out, nil
	case 48:
		out := image.NewNRGBA64(rect)
		for y := range h {
			src := img.Data[y*stride:]
			dst := out.Pix[y*out.Stride:]
			for x := range w {
				s, d := x*6, x*8
				binary.BigEndian.PutUint16(dst[d:], binary.LittleEndian.Uint16(src[s:]))
				binary.BigEndian.PutUint16(dst[d+2:], binary.LittleEndian.Uint16(src[s+2:]))
				binary.BigEndian.PutUint16(dst[d+4:], binary.LittleEndian.Uint16(src[s+4:]))
				dst[d+6], dst[d+7] = 0xff, 0xff
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", toupcam.ErrUnsupportedBits, img.Bits)
}

// Thumbnail scales img to width, keeping the aspect ratio. A width of zero,
// or one not smaller than the image, returns img unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Save writes img to path in the format implied by its extension.
func Save(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("capture: %s: %w", path, err)
	}
	return imaging.Save(img, path, imaging.JPEGQuality(95))
}
