package itm

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestConfigure(t *testing.T) {
	port, _ := setup(t)

	err := Configure(Config{
		TraceClock: 72 * physic.MegaHertz,
		SWOBaud:    2 * physic.MegaHertz,
		Level:      LevelInfo,
	})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if port.regs[_TPIU_ACPR] != 35 {
		t.Errorf("Expected ACPR = 35, got %d", port.regs[_TPIU_ACPR])
	}
	if logger.level != LevelInfo || MaxLevel() != LevelInfo {
		t.Errorf("Expected threshold INFO, got %s / %s", logger.level, MaxLevel())
	}
}

func TestConfigureDefaults(t *testing.T) {
	port, _ := setup(t)

	if err := Configure(Config{}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if _, ok := port.regs[_TPIU_ACPR]; ok {
		t.Error("Expected prescaler untouched without a trace clock")
	}
	if logger.level != LevelTrace {
		t.Errorf("Expected default threshold TRACE, got %s", logger.level)
	}
}

func TestConfigureImpossibleBaud(t *testing.T) {
	setup(t)

	err := Configure(Config{TraceClock: 16 * physic.MegaHertz, SWOBaud: 3 * physic.MegaHertz})
	if !errors.Is(err, ErrImpossibleBaudRate) {
		t.Fatalf("Expected ErrImpossibleBaudRate, got %v", err)
	}
	if logger.installed {
		t.Error("Logger must not be installed after a failed configuration")
	}
}

func TestConfigureFractionalHertz(t *testing.T) {
	tests := []struct {
		name string
		clk  physic.Frequency
		baud physic.Frequency
	}{
		{"fractional baud", 16 * physic.MegaHertz, 2*physic.MegaHertz + 500*physic.MilliHertz},
		{"fractional clock", 16*physic.MegaHertz + 1*physic.MicroHertz, 2 * physic.MegaHertz},
	}
	for _, tt := range tests {
		port, _ := setup(t)

		err := Configure(Config{TraceClock: tt.clk, SWOBaud: tt.baud})
		if !errors.Is(err, ErrImpossibleBaudRate) {
			t.Errorf("%s: expected ErrImpossibleBaudRate, got %v", tt.name, err)
		}
		if _, ok := port.regs[_TPIU_ACPR]; ok {
			t.Errorf("%s: prescaler must not be programmed, got %d", tt.name, port.regs[_TPIU_ACPR])
		}
	}
}

func TestConfigureBaudWithoutClock(t *testing.T) {
	port, _ := setup(t)

	err := Configure(Config{SWOBaud: 2 * physic.MegaHertz})
	if !errors.Is(err, ErrImpossibleBaudRate) {
		t.Fatalf("Expected ErrImpossibleBaudRate, got %v", err)
	}
	if _, ok := port.regs[_TPIU_ACPR]; ok {
		t.Error("Prescaler must not be programmed")
	}
	if logger.installed {
		t.Error("Logger must not be installed after a failed configuration")
	}
}
