package shiftreg

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

var errPinStuck = errors.New("pin stuck")

// events tracks the order of latch and clock transitions against reads of
// the serial data line.
type events struct {
	log []string
}

type outPin struct {
	gpiotest.Pin
	ev   *events
	name string
	fail bool
}

func (p *outPin) Out(l gpio.Level) error {
	if p.fail {
		return errPinStuck
	}
	state := "low"
	if l == gpio.High {
		state = "high"
	}
	p.ev.log = append(p.ev.log, p.name+" "+state)
	return p.Pin.Out(l)
}

// dataPin shifts out a preset byte, MSB first, one bit per Read.
type dataPin struct {
	gpiotest.Pin
	ev    *events
	value byte
	reads int
}

func (p *dataPin) Read() gpio.Level {
	bit := (p.value >> (7 - p.reads%8)) & 1
	p.reads++
	p.ev.log = append(p.ev.log, "read")
	if bit == 1 {
		return gpio.High
	}
	return gpio.Low
}

func newTestReg(value byte) (*Reg, *events) {
	ev := &events{}
	clock := &outPin{Pin: gpiotest.Pin{N: "CLK"}, ev: ev, name: "clk"}
	latch := &outPin{Pin: gpiotest.Pin{N: "LATCH"}, ev: ev, name: "latch"}
	data := &dataPin{Pin: gpiotest.Pin{N: "DATA"}, ev: ev, value: value}
	return New(clock, latch, data), ev
}

func TestRead8(t *testing.T) {
	tests := []struct {
		name  string
		value byte
	}{
		{"all clear", 0x00},
		{"all set", 0xFF},
		{"alternating", 0xA5},
		{"busy bit only", 0x80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestReg(tt.value)
			got, err := r.Read8()
			if err != nil {
				t.Fatalf("Read8: %v", err)
			}
			if got != tt.value {
				t.Errorf("Read8() = 0x%02X, want 0x%02X", got, tt.value)
			}
		})
	}
}

// TestRead8Sequencing checks the bit-bang protocol: latch pulse first, then
// for each of the 8 bits a sample followed by a clock pulse.
func TestRead8Sequencing(t *testing.T) {
	r, ev := newTestReg(0x5A)
	if _, err := r.Read8(); err != nil {
		t.Fatalf("Read8: %v", err)
	}

	want := []string{"latch low", "latch high"}
	for i := 0; i < 8; i++ {
		want = append(want, "read", "clk low", "clk high")
	}
	if len(ev.log) != len(want) {
		t.Fatalf("event log has %d entries, want %d: %v", len(ev.log), len(want), ev.log)
	}
	for i := range want {
		if ev.log[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, ev.log[i], want[i])
		}
	}
}

func TestBit(t *testing.T) {
	r, _ := newTestReg(0x41) // bits 6 and 0 set
	for _, tt := range []struct {
		index uint8
		want  bool
	}{
		{0, true},
		{1, false},
		{6, true},
		{7, false},
	} {
		got, err := r.Bit(tt.index)
		if err != nil {
			t.Fatalf("Bit(%d): %v", tt.index, err)
		}
		if got != tt.want {
			t.Errorf("Bit(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestBusy(t *testing.T) {
	// BUSY_N is bit 7; a zero there means the controller is working.
	r, _ := newTestReg(0x7F)
	if !r.Busy() {
		t.Error("bit 7 clear should report busy")
	}

	r, _ = newTestReg(0x80)
	if r.Busy() {
		t.Error("bit 7 set should report idle")
	}
}

func TestBusyReadErrorReportsIdle(t *testing.T) {
	ev := &events{}
	clock := &outPin{Pin: gpiotest.Pin{N: "CLK"}, ev: ev, name: "clk"}
	latch := &outPin{Pin: gpiotest.Pin{N: "LATCH"}, ev: ev, name: "latch", fail: true}
	data := &dataPin{Pin: gpiotest.Pin{N: "DATA"}, ev: ev, value: 0x00}
	r := New(clock, latch, data)

	if r.Busy() {
		t.Error("a failed register read must report not-busy")
	}
}
