package raster

import (
	"image"
	"image/color"
)

// FromImage converts img to a luma raster.
//
// Fast paths read Gray, YCbCr, NRGBA and RGBA pixel buffers directly;
// every other image type goes through color.GrayModel. YCbCr images use
// their Y plane as is, the RGB paths match color.GrayModel exactly.
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	r, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray:
		fromGray(src, b, r)
	case *image.YCbCr:
		fromYCbCr(src, b, r)
	case *image.NRGBA:
		fromNRGBA(src, b, r)
	case *image.RGBA:
		fromRGBA(src, b, r)
	default:
		fromGeneric(img, b, r)
	}
	return r, nil
}

func fromGray(src *image.Gray, b image.Rectangle, r *Raster) {
	for row := 0; row < r.Height; row++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+row)
		copy(r.Pix[row*r.Width:(row+1)*r.Width], src.Pix[off:off+r.Width])
	}
}

// fromYCbCr copies luma straight from the Y plane.
func fromYCbCr(src *image.YCbCr, b image.Rectangle, r *Raster) {
	for row := 0; row < r.Height; row++ {
		off := src.YOffset(b.Min.X, b.Min.Y+row)
		copy(r.Pix[row*r.Width:(row+1)*r.Width], src.Y[off:off+r.Width])
	}
}

// fromNRGBA premultiplies like NRGBA.RGBA before weighting.
func fromNRGBA(src *image.NRGBA, b image.Rectangle, r *Raster) {
	for row := 0; row < r.Height; row++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+row)
		dst := r.Pix[row*r.Width : (row+1)*r.Width]
		for col := range dst {
			p := src.Pix[off : off+4 : off+4]
			a := uint32(p[3])
			rr := uint32(p[0]) * 0x101 * a / 0xff
			gg := uint32(p[1]) * 0x101 * a / 0xff
			bb := uint32(p[2]) * 0x101 * a / 0xff
			dst[col] = luma16(rr, gg, bb)
			off += 4
		}
	}
}

func fromRGBA(src *image.RGBA, b image.Rectangle, r *Raster) {
	for row := 0; row < r.Height; row++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+row)
		dst := r.Pix[row*r.Width : (row+1)*r.Width]
		for col := range dst {
			p := src.Pix[off : off+4 : off+4]
			dst[col] = luma16(uint32(p[0])*0x101, uint32(p[1])*0x101, uint32(p[2])*0x101)
			off += 4
		}
	}
}

func fromGeneric(img image.Image, b image.Rectangle, r *Raster) {
	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.Gray)
			r.Pix[row*r.Width+col] = g.Y
		}
	}
}

// luma16 mirrors color.GrayModel for 16-bit premultiplied channels.
func luma16(r, g, b uint32) uint8 {
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}

// Image returns a copy of r as an *image.Gray anchored at the origin.
func (r *Raster) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}
