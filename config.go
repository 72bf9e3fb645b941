package itm

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Config holds the startup configuration of the logger.
type Config struct {
	// TraceClock is the frequency of TRACECLKIN, in whole hertz.
	// When zero the TPIU prescaler is left untouched and SWOBaud must be zero
	// too.
	TraceClock physic.Frequency
	// SWOBaud is the desired SWO output rate, in whole hertz. TraceClock must
	// be a whole multiple of it.
	SWOBaud physic.Frequency
	// Level is the least severe level that gets written.
	// Defaults to LevelTrace if not provided.
	Level Level
}

// Configure programs the SWO baud rate and installs the logger.
// Hardware must already be bound, either by the TinyGo runtime or SetHardware.
func Configure(c Config) error {
	if c.Level == LevelOff {
		c.Level = LevelTrace
	}
	if c.TraceClock == 0 && c.SWOBaud != 0 {
		return fmt.Errorf("baud %s without a trace clock: %w", c.SWOBaud, ErrImpossibleBaudRate)
	}
	if c.TraceClock != 0 {
		if c.TraceClock%physic.Hertz != 0 || c.SWOBaud%physic.Hertz != 0 {
			return fmt.Errorf("trace clock %s / baud %s: fractional hertz: %w", c.TraceClock, c.SWOBaud, ErrImpossibleBaudRate)
		}
		clk, baud := uint64(c.TraceClock/physic.Hertz), uint64(c.SWOBaud/physic.Hertz)
		if clk > 0xFFFFFFFF || baud > 0xFFFFFFFF {
			return fmt.Errorf("trace clock %s / baud %s: %w", c.TraceClock, c.SWOBaud, ErrImpossibleBaudRate)
		}
		if err := UpdateBaudRate(uint32(clk), uint32(baud)); err != nil {
			return fmt.Errorf("failed to set SWO baud rate: %w", err)
		}
	}
	if err := InitWithLevel(c.Level); err != nil {
		return fmt.Errorf("failed to install logger: %w", err)
	}
	return nil
}
