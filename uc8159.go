// Package uc8159 controls a UC8159 seven-color e-paper panel via SPI.
//
// The UC8159 drives 600x448 panels such as the Pimoroni Inky Frame 5.7" and
// Inky Impression 5.7". Pixels are 3-bit color codes packed two per byte.
//
// See the examples for how to use this package.
package uc8159

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/mdarrik/uc8159/imageoct"
)

// Panel geometry. The UC8159 always scans the full 600x448 matrix; unlike
// smaller controllers there is no windowing, so these are fixed.
const (
	Width  = 600
	Height = 448

	// BufferSize is the size of a packed full frame, two pixels per byte.
	BufferSize = Width * Height / 2
)

// DefaultBackgroundColor fills unset pixels and the panel border.
const DefaultBackgroundColor = imageoct.White

// Opts is the configuration for the UC8159 panel.
type Opts struct {
	// BackgroundColor fills unset pixels and the border. Its 3-bit code is
	// folded into the VCOM/data-interval register, so it also nudges the
	// panel's internal timing. Defaults to White.
	BackgroundColor imageoct.OctColor

	// BusyPollInterval is the pause between busy-signal polls. Zero means
	// DefaultBusyPollInterval; negative means a tight loop.
	BusyPollInterval time.Duration
}

// DefaultBusyPollInterval is used when Opts.BusyPollInterval is zero.
const DefaultBusyPollInterval = time.Millisecond

// Dev is the device handle for the UC8159 panel.
type Dev struct {
	// Communication
	c    conn.Conn   // SPI connection
	dc   gpio.PinOut // Data/Command pin (low = command, high = data)
	rst  gpio.PinOut // Reset pin
	busy Busy        // Busy status source

	// Frame state
	rect   image.Rectangle
	buffer *imageoct.Image // Canvas for Draw

	// Protocol state
	bg       imageoct.OctColor
	pollWait time.Duration
	halted   bool
}

// NewSPI creates a UC8159 device connected via SPI and initializes the
// panel, leaving it idle and ready for a frame.
//
// The SPI port is configured for 3MHz, Mode0, 8-bit transfers. The dc and
// rst pins must be outputs. busy reports the controller's BUSY state; use
// BusyPin for a dedicated pin or shiftreg.Reg for the Inky Frame's shared
// status register.
//
// opts can be nil to use defaults (white background).
func NewSPI(p spi.Port, dc, rst gpio.PinOut, busy Busy, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if dc == nil || rst == nil {
		return nil, errors.New("uc8159: dc and rst pins are required")
	}
	if busy == nil {
		return nil, errors.New("uc8159: busy status source is required")
	}

	bg := opts.BackgroundColor
	if bg > imageoct.HiZ {
		return nil, fmt.Errorf("uc8159: invalid background color 0x%02X", uint8(bg))
	}

	pollWait := opts.BusyPollInterval
	switch {
	case pollWait == 0:
		pollWait = DefaultBusyPollInterval
	case pollWait < 0:
		pollWait = 0
	}

	// The UC8159 tops out around 3MHz on the SPI bus.
	c, err := p.Connect(3*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("uc8159: failed to connect SPI: %w", err)
	}

	d := &Dev{
		c:        c,
		dc:       dc,
		rst:      rst,
		busy:     busy,
		rect:     image.Rect(0, 0, Width, Height),
		buffer:   imageoct.NewImage(image.Rect(0, 0, Width, Height)),
		bg:       bg,
		pollWait: pollWait,
	}
	d.buffer.Clear(bg)

	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init runs the hardware reset and register initialization sequence,
// bringing the panel out of deep sleep or power-on into the idle state.
// NewSPI calls it once; call it again only to recover after Sleep or a
// transport error.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}
	d.busyWait()

	seq := []struct {
		cmd  byte
		data []byte
	}{
		{panelSetting, []byte{0xEF, 0x08}},
		{powerSetting, []byte{0x37, 0x00, 0x23, 0x23}},
		{powerOffSequenceSetting, []byte{0x00}},
		{boosterSoftStart, []byte{0xC7, 0xC7, 0x1D}},
		{pllControl, []byte{0x3C}},
		{temperatureSensor, []byte{0x00}},
		{vcomAndDataInterval, []byte{0x37}},
		{tconSetting, []byte{0x22}},
	}
	for _, s := range seq {
		if err := d.sendCommandData(s.cmd, s.data); err != nil {
			return err
		}
	}

	if err := d.sendResolution(); err != nil {
		return err
	}
	if err := d.sendCommandData(flashMode, []byte{0xAA}); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.sendCommandData(vcomAndDataInterval, []byte{0x37}); err != nil {
		return err
	}

	d.halted = false
	return nil
}

// Reset pulses the reset line and waits for the controller to come up.
// This is the only way out of deep sleep.
func (d *Dev) Reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("uc8159: failed to pull RST low: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("uc8159: failed to pull RST high: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	d.busyWait()
	return nil
}

// UpdateFrame transmits a packed frame into the controller's SRAM without
// refreshing the panel. The buffer must be exactly BufferSize bytes in the
// imageoct packed format.
func (d *Dev) UpdateFrame(buffer []byte) error {
	if d.halted {
		return errors.New("uc8159: halted")
	}
	if len(buffer) != BufferSize {
		return errors.New("uc8159: invalid buffer size")
	}

	d.busyWait()
	if err := d.updateVcom(); err != nil {
		return err
	}
	if err := d.sendResolution(); err != nil {
		return err
	}
	if err := d.sendCommandData(dataStartTransmission1, buffer); err != nil {
		return err
	}
	return d.sendCommand(dataStop)
}

// DisplayFrame refreshes the panel from SRAM: power on, refresh, power off,
// with a busy-wait bracketing every phase. The pigment update takes tens of
// seconds and this call blocks for all of it.
func (d *Dev) DisplayFrame() error {
	if d.halted {
		return errors.New("uc8159: halted")
	}

	d.busyWait()
	if err := d.sendCommand(powerOn); err != nil {
		return err
	}
	d.busyWait()
	if err := d.sendCommand(displayRefresh); err != nil {
		return err
	}
	d.busyWait()
	if err := d.sendCommand(powerOff); err != nil {
		return err
	}
	d.busyWait()
	return nil
}

// UpdateAndDisplayFrame transmits a packed frame and refreshes the panel.
func (d *Dev) UpdateAndDisplayFrame(buffer []byte) error {
	if err := d.UpdateFrame(buffer); err != nil {
		return err
	}
	return d.DisplayFrame()
}

// ClearFrame fills the panel with the background color and refreshes it.
// The fill byte is streamed row by row instead of materializing a full
// frame buffer.
func (d *Dev) ClearFrame() error {
	if d.halted {
		return errors.New("uc8159: halted")
	}

	d.busyWait()
	if err := d.updateVcom(); err != nil {
		return err
	}
	if err := d.sendResolution(); err != nil {
		return err
	}
	if err := d.sendCommand(dataStartTransmission1); err != nil {
		return err
	}
	fill := imageoct.ColorsByte(d.bg, d.bg)
	row := make([]byte, Width/2)
	for i := range row {
		row[i] = fill
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for y := 0; y < Height; y++ {
		if err := d.c.Tx(row, nil); err != nil {
			return err
		}
	}
	return d.DisplayFrame()
}

// PowerOff turns off the charge pump and drivers. Register contents are
// kept; a later DisplayFrame powers back up on its own.
func (d *Dev) PowerOff() error {
	return d.sendCommand(powerOff)
}

// Sleep puts the controller into deep-sleep mode. The command carries a
// check byte and is ignored by the hardware unless it is exactly 0xA5.
// Only WakeUp (a hardware reset) leaves this state.
func (d *Dev) Sleep() error {
	if err := d.sendCommandData(deepSleep, []byte{0xA5}); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// WakeUp re-runs the full reset and initialization sequence, the only exit
// from deep sleep.
func (d *Dev) WakeUp() error {
	return d.Init()
}

// SetBackgroundColor sets the color used for unset pixels and the border.
// It takes effect on the next UpdateFrame or ClearFrame.
func (d *Dev) SetBackgroundColor(c imageoct.OctColor) {
	d.bg = c
}

// BackgroundColor returns the active background color.
func (d *Dev) BackgroundColor() imageoct.OctColor {
	return d.bg
}

// SetRotation sets the rotation of the internal canvas used by Draw.
func (d *Dev) SetRotation(r imageoct.Rotation) {
	d.buffer.SetRotation(r)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return imageoct.OctModel
}

// Bounds returns the bounds of the drawing surface: 600x448 natively,
// transposed when a 90 or 270 degree rotation is active.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw renders src onto the internal canvas, quantizing through OctModel,
// and refreshes the panel. It implements display.Drawer.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("uc8159: halted")
	}

	dst = dst.Intersect(d.buffer.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.buffer, dst, src, sp, draw.Src)
	return d.UpdateAndDisplayFrame(d.buffer.Bytes())
}

// Write transmits raw packed pixel data and refreshes the panel. The data
// must be exactly BufferSize bytes. It is the fast path for callers that
// keep their own imageoct.Image.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("uc8159: halted")
	}
	if len(pixels) != BufferSize {
		return 0, errors.New("uc8159: invalid buffer size")
	}
	if err := d.UpdateAndDisplayFrame(pixels); err != nil {
		return 0, err
	}
	copy(d.buffer.Bytes(), pixels)
	return len(pixels), nil
}

// Halt puts the display into deep sleep. It implements conn.Resource;
// re-initialize with WakeUp before using the device again.
func (d *Dev) Halt() error {
	if err := d.PowerOff(); err != nil {
		return err
	}
	return d.Sleep()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("uc8159.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// updateVcom folds the background color's 3-bit code into the high bits of
// the VCOM/data-interval register. The border color and the VCOM timing
// share this byte on the UC8159.
func (d *Dev) updateVcom() error {
	return d.sendCommandData(vcomAndDataInterval, []byte{0x17 | (d.bg.Nibble()&0x07)<<5})
}

// sendResolution transmits the active resolution, width and height as
// big-endian 16-bit values.
func (d *Dev) sendResolution() error {
	return d.sendCommandData(tconResolution, []byte{
		byte(Width >> 8), byte(Width & 0xFF),
		byte(Height >> 8), byte(Height & 0xFF),
	})
}

// busyWait blocks until the controller releases the busy signal. There is
// no timeout; a stuck panel blocks the caller.
func (d *Dev) busyWait() {
	for d.busy.Busy() {
		if d.pollWait > 0 {
			time.Sleep(d.pollWait)
		}
	}
}

// sendCommand sends a single command byte with DC low.
func (d *Dev) sendCommand(cmd byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx([]byte{cmd}, nil)
}

// sendData sends payload bytes with DC high.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// sendCommandData sends a command byte followed by its payload.
func (d *Dev) sendCommandData(cmd byte, data []byte) error {
	if err := d.sendCommand(cmd); err != nil {
		return err
	}
	return d.sendData(data)
}
