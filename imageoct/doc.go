// Package imageoct provides the seven-color image format for the UC8159
// e-paper display controller.
//
// The UC8159 drives panels with seven ink colors (black, white, green, blue,
// red, yellow, orange) plus a HiZ "clean" state. Each pixel is a 3-bit code
// stored one per nibble, two pixels per byte, high nibble first.
//
// Memory layout example for a 4-pixel row:
//
//	Pixels: 0      1      2      3
//	Colors: White  Green  Red    Black
//	Bytes:  0x12          0x40
//	        (0x12 = high nibble: 1=White, low nibble: 2=Green)
//	        (0x40 = high nibble: 4=Red, low nibble: 0=Black)
//
// This package provides:
//
// - OctColor: the color type, whose numeric value is the on-wire code
// - OctModel: a color model quantizing any standard Go color to OctColor
// - Image: a packed framebuffer implementing image.Image and draw.Image
//
// Quantization snaps to the palette entry with the smallest squared RGB
// distance; an exact match of a palette color's RGB rendition always maps
// back to that color, so HiZ survives round-trips through color.Color.
//
// Image supports an orthogonal rotation state. Rotation changes the
// coordinate mapping of subsequent writes only; it never rearranges bytes
// already in the buffer, so it must be set before drawing:
//
//	img := imageoct.NewImage(image.Rect(0, 0, 600, 448))
//	img.SetRotation(imageoct.Rotate90)
//	img.SetOct(10, 20, imageoct.Orange)
//
// Under Rotate90 and Rotate270 the viewing frame is transposed, and Bounds
// reports the transposed rectangle so that image/draw clips correctly.
//
// Writes outside the visible area are silently dropped, the usual clipping
// behavior of drawing APIs. Because Image implements draw.Image, the
// standard library can render into it directly:
//
//	draw.Draw(img, img.Bounds(), image.NewUniform(imageoct.Yellow), image.Point{}, draw.Src)
package imageoct
