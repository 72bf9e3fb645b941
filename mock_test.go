package itm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// --- Mocks ---

type mockMask struct {
	depth    int
	disables int
}

func (m *mockMask) Disable() uintptr {
	m.depth++
	m.disables++
	return uintptr(m.depth - 1)
}

func (m *mockMask) Restore(state uintptr) {
	m.depth = int(state)
}

type regWrite struct {
	addr  uintptr
	value uint32
	width int
}

type mockPort struct {
	mask     *mockMask
	regs     map[uintptr]uint32
	writes   []regWrite
	stim     bytes.Buffer // bytes that reached a stimulus port
	busy     int          // FIFO-ready polls that report busy before ready
	polls    int
	unmasked int // stimulus writes issued with interrupts enabled
}

func newMockPort(mask *mockMask) *mockPort {
	return &mockPort{mask: mask, regs: map[uintptr]uint32{}}
}

func isStim(addr uintptr) bool {
	return addr >= _ITM_STIM0 && addr < _ITM_STIM0+4*_STIM_PORTS
}

func (m *mockPort) Read32(addr uintptr) uint32 {
	if isStim(addr) {
		m.polls++
		if m.busy > 0 {
			m.busy--
			return 0
		}
		return _FIFOREADY
	}
	return m.regs[addr]
}

func (m *mockPort) Write32(addr uintptr, v uint32) {
	m.writes = append(m.writes, regWrite{addr, v, 32})
	if isStim(addr) {
		m.checkMasked()
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		m.stim.Write(b[:])
		return
	}
	m.regs[addr] = v
}

func (m *mockPort) Write8(addr uintptr, v uint8) {
	m.writes = append(m.writes, regWrite{addr, uint32(v), 8})
	if isStim(addr) {
		m.checkMasked()
		m.stim.WriteByte(v)
	}
}

func (m *mockPort) checkMasked() {
	if m.mask != nil && m.mask.depth == 0 {
		m.unmasked++
	}
}

// setReady sets or clears every readiness bit for stimulus port n.
func (m *mockPort) setReady(n uint8, ready bool) {
	if ready {
		m.regs[_DHCSR] = _C_DEBUGEN
		m.regs[_ITM_TCR] = _ITMENA
		m.regs[_ITM_TER] = 1 << n
		return
	}
	m.regs[_DHCSR], m.regs[_ITM_TCR], m.regs[_ITM_TER] = 0, 0, 0
}

// reset puts the package back into its power-on state with the given
// hardware bound.
func reset(t *testing.T, hw Hardware) {
	t.Helper()
	logger = itmLogger{hw: Hardware{Mask: nopMask{}}, enabled: true, level: LevelTrace}
	sinkState.Store(sinkUninitialized)
	sink = nopSink{}
	maxLevel.Store(uint32(LevelOff))
	if p, ok := hw.Port.(*mockPort); ok {
		p.setReady(hw.StimulusPort, true)
	}
	if err := SetHardware(hw); err != nil {
		t.Fatalf("SetHardware failed: %v", err)
	}
}

func setup(t *testing.T) (*mockPort, *mockMask) {
	t.Helper()
	mask := &mockMask{}
	port := newMockPort(mask)
	reset(t, Hardware{Port: port, Mask: mask})
	return port, mask
}
