package uc8159

import (
	"periph.io/x/conn/v3/gpio"
)

// Busy reports whether the panel controller is mid-operation and not ready
// to accept commands. The driver polls it between protocol phases.
//
// On boards where BUSY_N is wired to a dedicated GPIO, use BusyPin. On
// boards that multiplex it through a shift register (the Inky Frame does),
// use shiftreg.Reg.
type Busy interface {
	Busy() bool
}

// BusyPin adapts a dedicated busy pin. The UC8159 drives BUSY_N low while
// it is working, so a low read means busy.
func BusyPin(pin gpio.PinIn) Busy {
	return busyPin{pin: pin}
}

type busyPin struct {
	pin gpio.PinIn
}

func (b busyPin) Busy() bool {
	return b.pin.Read() == gpio.Low
}
