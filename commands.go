package uc8159

// UC8159 command opcodes. Each command byte is shifted out with the DC line
// low; its payload bytes follow with DC high.
const (
	// panelSetting selects resolution source, LUT selection, gate scan
	// direction, source shift direction, booster switch and soft reset.
	panelSetting byte = 0x00

	// powerSetting selects internal or external power rails.
	powerSetting byte = 0x01

	// powerOff turns off the charge pump, T-con, source/gate drivers, VCOM
	// and temperature sensor. Register data is kept until VDD drops.
	powerOff byte = 0x02

	// powerOffSequenceSetting configures the power-off sequencing.
	powerOffSequenceSetting byte = 0x03

	// powerOn powers the driver up; BUSY is released once the power-on
	// sequence completes.
	powerOn byte = 0x04

	// boosterSoftStart configures the booster soft-start periods.
	boosterSoftStart byte = 0x06

	// deepSleep enters deep-sleep mode. The single payload byte is a check
	// code; the command is ignored unless it is exactly 0xA5. Deep sleep is
	// only exited by hardware reset.
	deepSleep byte = 0x07

	// dataStartTransmission1 starts frame data transmission into SRAM.
	// Transmission must be terminated with dataStop.
	dataStartTransmission1 byte = 0x10

	// dataStop terminates a data transmission and checks the data flag.
	dataStop byte = 0x11

	// displayRefresh refreshes the panel from SRAM through the LUT. BUSY
	// stays asserted until the physical update finishes.
	displayRefresh byte = 0x12

	// pllControl sets the PLL clock frequency.
	pllControl byte = 0x30

	// temperatureSensor selects the internal or external temperature sensor.
	temperatureSensor byte = 0x40

	// vcomAndDataInterval sets the interval of VCOM and data output. The
	// high three bits carry the border/background color code.
	vcomAndDataInterval byte = 0x50

	// tconSetting defines the non-overlap period of gate and source.
	tconSetting byte = 0x60

	// tconResolution sets the active resolution, taking priority over the
	// RES bits in the panel setting register.
	tconResolution byte = 0x61

	// flashMode is sent by every vendor driver for this controller family
	// but is not documented in the datasheet.
	flashMode byte = 0xE3
)
