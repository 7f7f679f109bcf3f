// Package uc8159 controls a UC8159 seven-color e-paper panel via SPI.
//
// The UC8159 is the controller behind 5.7" ACeP panels such as the Pimoroni
// Inky Frame 5.7" and Inky Impression 5.7". It drives a fixed 600×448
// matrix with seven ink colors (black, white, green, blue, red, yellow,
// orange) plus a HiZ "clean" state, one 3-bit code per pixel, packed two
// pixels per byte.
//
// # Display Characteristics
//
// - 600×448 pixels, seven colors + HiZ, no partial refresh
// - Full refresh takes roughly 30 seconds and is gated by a BUSY signal
// - Deep-sleep mode, exited only by hardware reset
// - SPI up to ~3MHz plus DC (data/command) and RST GPIO lines
//
// # Hardware Connection
//
// Connect the panel to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	CLK         → SPI Clock (SCLK)
//	MOSI        → SPI Data (MOSI)
//	CS          → SPI Chip Select
//	DC          → GPIO (any available pin)
//	RST         → GPIO (any available pin)
//	BUSY        → GPIO, or a shift register bit on the Inky Frame
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//
//		"github.com/mdarrik/uc8159"
//		"github.com/mdarrik/uc8159/imageoct"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dc := gpioreg.ByName("GPIO22")
//		rst := gpioreg.ByName("GPIO27")
//		busy := uc8159.BusyPin(gpioreg.ByName("GPIO17"))
//
//		dev, _ := uc8159.NewSPI(spiBus, dc, rst, busy, nil)
//
//		img := imageoct.NewImage(dev.Bounds())
//		img.Clear(imageoct.White)
//		for x := 0; x < 600; x++ {
//			img.SetOct(x, 224, imageoct.Red)
//		}
//		dev.UpdateAndDisplayFrame(img.Bytes())
//
//		dev.Sleep()
//	}
//
// # Busy Signal Sources
//
// The driver never assumes how BUSY is wired. Boards with a dedicated pin
// pass BusyPin(pin); the Inky Frame routes BUSY through an input shift
// register shared with the front buttons, for which the shiftreg package
// provides a ready-made implementation:
//
//	reg := shiftreg.New(clockPin, latchPin, dataPin)
//	dev, _ := uc8159.NewSPI(spiBus, dc, rst, reg, nil)
//
// Busy-waits poll the source with a configurable interval
// (Opts.BusyPollInterval) and no timeout; a wedged panel blocks the caller,
// and watchdog policy is left to the host application.
//
// # Background Color
//
// The background color fills unset pixels and the border. Its 3-bit code is
// folded into the controller's VCOM/data-interval register, so changing it
// also affects panel timing:
//
//	dev.SetBackgroundColor(imageoct.Black)
//
// # Drawing
//
// Dev implements the display.Drawer interface from periph.io. Any
// image.Image can be drawn and is quantized to the seven-color palette
// through imageoct.OctModel:
//
//	dev.Draw(dev.Bounds(), photo, image.Point{})
//
// For full control, render into an imageoct.Image (optionally rotated) and
// transmit it with UpdateAndDisplayFrame or Write.
//
// # Error Handling
//
// Every operation stops at the first transport error and returns it; the
// protocol has no mechanism to resynchronize mid-sequence, so after any
// error the panel should be recovered with Init before resuming.
//
// # Datasheet
//
// UltraChip UC8159c. The register sequences follow the vendor drivers for
// the EPD5in65f / Inky Impression family, which share this controller.
package uc8159
