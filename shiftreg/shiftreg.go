// Package shiftreg reads the Inky Frame's input shift register.
//
// The Inky Frame multiplexes its front buttons and the UC8159 BUSY_N signal
// through a single parallel-in/serial-out shift register (74HC165 style)
// instead of spending a GPIO per input. The register is read by toggling
// the latch line and then clocking out 8 bits, most significant bit first,
// sampling the serial data line on each clock.
//
// Bit 7 carries BUSY_N, so Reg satisfies the driver's busy interface and
// can be handed straight to uc8159.NewSPI.
package shiftreg

import (
	"periph.io/x/conn/v3/gpio"
)

// BusyBit is the register bit wired to the UC8159 BUSY_N line. The
// controller drives it low while it is working.
const BusyBit = 7

// Reg is a handle to a parallel-in/serial-out shift register, bit-banged
// over three GPIOs.
type Reg struct {
	clock gpio.PinOut
	latch gpio.PinOut
	data  gpio.PinIn
}

// New returns a Reg reading through the given pins. clock and latch must be
// outputs, data an input.
func New(clock, latch gpio.PinOut, data gpio.PinIn) *Reg {
	return &Reg{
		clock: clock,
		latch: latch,
		data:  data,
	}
}

// Read8 latches the parallel inputs and clocks out the 8 register bits,
// MSB first.
func (r *Reg) Read8() (byte, error) {
	if err := r.latch.Out(gpio.Low); err != nil {
		return 0, err
	}
	if err := r.latch.Out(gpio.High); err != nil {
		return 0, err
	}

	var result byte
	for bit := 0; bit < 8; bit++ {
		result <<= 1
		if r.data.Read() == gpio.High {
			result |= 1
		}
		if err := r.clock.Out(gpio.Low); err != nil {
			return 0, err
		}
		if err := r.clock.Out(gpio.High); err != nil {
			return 0, err
		}
	}
	return result, nil
}

// Bit reads the register and extracts a single bit.
func (r *Reg) Bit(index uint8) (bool, error) {
	b, err := r.Read8()
	if err != nil {
		return false, err
	}
	return b&(1<<index) != 0, nil
}

// Busy reports whether the panel controller is busy: BUSY_N reads low while
// an operation is in progress. A failed register read reports not-busy.
func (r *Reg) Busy() bool {
	set, err := r.Bit(BusyBit)
	if err != nil {
		return false
	}
	return !set
}
