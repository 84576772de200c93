package adc

import (
	"fmt"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the MCP3008 clock at 3.3V supply.
const DefaultSpeed = 1 * physic.MegaHertz

// MCP3008 reads one single-ended channel of an MCP3008 over SPI.
// The 10-bit result is referenced to the chip's VREF (tied to the supply).
type MCP3008 struct {
	port    spi.PortCloser
	conn    spi.Conn
	channel int
	tx, rx  [3]byte
}

// OpenMCP3008 initializes periph.io and opens the named SPI port
// (empty picks the first available).
func OpenMCP3008(port string, channel int, speed physic.Frequency) (*MCP3008, error) {
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}
	return NewMCP3008(p, channel, speed)
}

// NewMCP3008 connects to an already opened port. The port is closed on error
// and by Close.
func NewMCP3008(p spi.PortCloser, channel int, speed physic.Frequency) (*MCP3008, error) {
	if err := checkChannel(channel); err != nil {
		return nil, multierr.Append(err, p.Close())
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("connect spi: %w", err), p.Close())
	}
	m := &MCP3008{port: p, conn: c, channel: channel}
	m.tx[0] = 0x01                     // start bit
	m.tx[1] = byte((8 + channel) << 4) // single-ended, channel select
	return m, nil
}

func checkChannel(channel int) error {
	if channel < 0 || channel > 7 {
		return fmt.Errorf("mcp3008: channel %d out of range 0-7", channel)
	}
	return nil
}

// Convert runs one conversion and returns the top 8 bits of the 10-bit result.
func (m *MCP3008) Convert() (uint8, error) {
	if err := m.conn.Tx(m.tx[:], m.rx[:]); err != nil {
		return 0, fmt.Errorf("mcp3008 transfer: %w", err)
	}
	// Only the last 10 bits are data; the rest are undefined.
	v := uint16(m.rx[1]&0x03)<<8 | uint16(m.rx[2])
	return To8Bit(v, 10), nil
}

// Close releases the SPI port.
func (m *MCP3008) Close() error {
	return m.port.Close()
}
