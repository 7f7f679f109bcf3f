// Package imageoct provides the 3-bit, seven-color-plus-clean image format
// used by UC8159 e-paper panels.
//
// The controller stores pixels in horizontal nibble packing where each byte
// contains 2 pixels. High nibble represents the left pixel, low nibble
// represents the right pixel. This package provides the OctColor color type,
// the OctModel quantizing color model, and the Image framebuffer
// implementation.
package imageoct

import (
	"fmt"
	"image"
	"image/color"
)

// OctColor is one of the seven ink colors supported by the panel, plus the
// HiZ "clean" state. The numeric value is the 3-bit code transmitted to the
// controller, one pixel per nibble.
type OctColor uint8

const (
	Black  OctColor = 0x00
	White  OctColor = 0x01
	Green  OctColor = 0x02
	Blue   OctColor = 0x03
	Red    OctColor = 0x04
	Yellow OctColor = 0x05
	Orange OctColor = 0x06
	// HiZ leaves the pigment floating. It is a hardware state, not a real
	// color, but it must survive round-trips like any other value.
	HiZ OctColor = 0x07
)

// octColors lists every valid color in code order. Quantization ties are
// broken by this order, so Black wins over everything else.
var octColors = [8]OctColor{Black, White, Green, Blue, Red, Yellow, Orange, HiZ}

// octRGB holds the approximate RGB rendition of each color, indexed by code.
var octRGB = [8][3]uint8{
	Black:  {0x00, 0x00, 0x00},
	White:  {0xFF, 0xFF, 0xFF},
	Green:  {0x00, 0xFF, 0x00},
	Blue:   {0x00, 0x00, 0xFF},
	Red:    {0xFF, 0x00, 0x00},
	Yellow: {0xFF, 0xFF, 0x00},
	Orange: {0xFF, 0x80, 0x00},
	HiZ:    {0x80, 0x80, 0x80}, // looks greyish
}

// OutOfRangeError reports a nibble that does not map to any OctColor.
type OutOfRangeError struct {
	Nibble uint8
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("imageoct: nibble 0x%02X outside of color range", e.Nibble)
}

// Nibble returns the 3-bit wire code of the color.
func (c OctColor) Nibble() uint8 {
	return uint8(c)
}

// RGB returns the approximate RGB rendition of the color.
func (c OctColor) RGB() (r, g, b uint8) {
	t := octRGB[c&0x07]
	return t[0], t[1], t[2]
}

// RGBA implements color.Color using the approximate RGB rendition.
func (c OctColor) RGBA() (r, g, b, a uint32) {
	t := octRGB[c&0x07]
	r = uint32(t[0]) * 0x101
	g = uint32(t[1]) * 0x101
	b = uint32(t[2]) * 0x101
	return r, g, b, 0xFFFF
}

// String returns the color name.
func (c OctColor) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case Red:
		return "Red"
	case Yellow:
		return "Yellow"
	case Orange:
		return "Orange"
	case HiZ:
		return "HiZ"
	}
	return fmt.Sprintf("OctColor(0x%02X)", uint8(c))
}

// FromNibble converts the lower 4 bits of a byte to an OctColor. Values
// 0x08-0x0F are not colors and fail with OutOfRangeError.
func FromNibble(nibble uint8) (OctColor, error) {
	nibble &= 0x0F
	if nibble > 0x07 {
		return Black, OutOfRangeError{Nibble: nibble}
	}
	return OctColor(nibble), nil
}

// ColorsByte packs two colors into the byte the controller expects: the
// first pixel in the high nibble, the second in the low nibble.
func ColorsByte(hi, lo OctColor) byte {
	return hi.Nibble()<<4 | lo.Nibble()
}

// SplitByte splits a packed byte back into its two colors. It fails if
// either nibble is outside the valid range.
func SplitByte(b byte) (hi, lo OctColor, err error) {
	if hi, err = FromNibble(b >> 4); err != nil {
		return
	}
	lo, err = FromNibble(b)
	return
}

// toOct converts any color.Color to its nearest OctColor. An exact match of
// a color's RGB rendition is returned as-is; anything else snaps to the
// color with the minimum squared Euclidean distance in RGB space.
func toOct(c color.Color) color.Color {
	if oc, ok := c.(OctColor); ok {
		return oc
	}
	r16, g16, b16, _ := c.RGBA()
	r, g, b := int32(r16>>8), int32(g16>>8), int32(b16>>8)

	best := Black
	bestDist := int32(-1)
	for _, oc := range octColors {
		t := octRGB[oc]
		if int32(t[0]) == r && int32(t[1]) == g && int32(t[2]) == b {
			return oc
		}
		dr := int32(t[0]) - r
		dg := int32(t[1]) - g
		db := int32(t[2]) - b
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best = oc
			bestDist = dist
		}
	}
	return best
}

// OctModel converts any color to its nearest OctColor.
var OctModel = color.ModelFunc(toOct)

// Rotation is the clockwise rotation applied to subsequent pixel writes.
// It changes the coordinate mapping only; bytes already in the buffer are
// never rewritten.
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Image is a packed seven-color framebuffer where each byte holds 2 pixels:
// high nibble = left pixel, low nibble = right pixel, in native (unrotated)
// coordinates. It implements image.Image and draw.Image.
type Image struct {
	Pix    []byte          // Pixel data, 2 pixels per byte
	Stride int             // Bytes per native row
	Rect   image.Rectangle // Native bounds

	rotation Rotation
}

// NewImage creates an Image with the given native bounds. The width must be
// even since two pixels share a byte. The buffer is allocated once and
// mutated in place for the life of the image.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	if w%2 != 0 {
		panic("imageoct: width must be even")
	}

	stride := w / 2
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns OctModel.
func (p *Image) ColorModel() color.Model {
	return OctModel
}

// Bounds returns the bounds of the rotated viewing frame: the native bounds
// under Rotate0/Rotate180, transposed under Rotate90/Rotate270. This keeps
// image/draw clipping aligned with the coordinates SetOct accepts.
func (p *Image) Bounds() image.Rectangle {
	switch p.rotation {
	case Rotate90, Rotate270:
		return image.Rect(p.Rect.Min.Y, p.Rect.Min.X, p.Rect.Max.Y, p.Rect.Max.X)
	default:
		return p.Rect
	}
}

// SetRotation sets the rotation applied to subsequent SetOct/OctAt calls.
func (p *Image) SetRotation(r Rotation) {
	p.rotation = r
}

// Rotation returns the active rotation.
func (p *Image) Rotation() Rotation {
	return p.rotation
}

// Bytes returns the packed buffer ready for transmission. No copy is made.
func (p *Image) Bytes() []byte {
	return p.Pix
}

// Clear fills the whole buffer with the given color.
func (p *Image) Clear(c OctColor) {
	b := ColorsByte(c, c)
	for i := range p.Pix {
		p.Pix[i] = b
	}
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.OctAt(x, y)
}

// OctAt returns the color of the pixel at (x, y) in the rotated frame.
// Out-of-bounds coordinates read as Black.
func (p *Image) OctAt(x, y int) OctColor {
	if p.outside(x, y) {
		return Black
	}
	offset, shift, ok := p.pixOffset(x, y)
	if !ok {
		return Black
	}
	return OctColor((p.Pix[offset] >> shift) & 0x07)
}

// Set implements draw.Image by quantizing c through OctModel.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetOct(x, y, OctModel.Convert(c).(OctColor))
}

// SetOct sets the pixel at (x, y) in the rotated frame. Writes outside the
// visible area are silently dropped, matching the permissive clipping of
// drawing APIs. Only the addressed nibble is touched; its sibling keeps its
// current value.
func (p *Image) SetOct(x, y int, c OctColor) {
	if p.outside(x, y) {
		return
	}
	offset, shift, ok := p.pixOffset(x, y)
	if !ok {
		return
	}
	p.Pix[offset] = (p.Pix[offset] &^ (0x0F << shift)) | (c.Nibble() << shift)
}

// outside reports whether (x, y) falls outside the rotated viewing frame.
// Under Rotate90/Rotate270 the caller's frame is transposed, so width and
// height swap roles in the check.
func (p *Image) outside(x, y int) bool {
	if x < 0 || y < 0 {
		return true
	}
	w, h := p.Rect.Dx(), p.Rect.Dy()
	switch p.rotation {
	case Rotate90, Rotate270:
		return y >= w || x >= h
	default:
		return x >= w || y >= h
	}
}

// pixOffset maps rotated coordinates to the byte offset and nibble shift in
// the native buffer. ok is false when the computed offset does not fit the
// allocated buffer, which callers must treat as a dropped write.
func (p *Image) pixOffset(x, y int) (offset int, shift uint, ok bool) {
	w, h := p.Rect.Dx(), p.Rect.Dy()

	var nx, ny int
	switch p.rotation {
	case Rotate0:
		nx, ny = x, y
	case Rotate90:
		nx, ny = w-1-y, x
	case Rotate180:
		nx, ny = w-1-x, h-1-y
	case Rotate270:
		nx, ny = y, h-1-x
	}

	offset = nx/2 + p.Stride*ny
	if offset < 0 || offset >= len(p.Pix) {
		return 0, 0, false
	}
	// Even nx (0, 2, 4...) uses the high nibble (shift 4),
	// odd nx (1, 3, 5...) the low nibble (shift 0).
	shift = uint(4 * (1 - (nx & 1)))
	return offset, shift, true
}
