//go:build !tinygo

package itm

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"periph.io/x/host/v3"
	"periph.io/x/host/v3/pmem"
)

// region is one mapped page of the debug address space. base is the
// architectural address the logger uses; the page may live elsewhere in
// physical memory.
type region struct {
	base  uintptr
	view  *pmem.View
	words []uint32
	bytes []byte
}

// periphPort reaches the trace registers through /dev/mem.
type periphPort struct {
	regions []region
}

func (p *periphPort) find(addr uintptr) (*region, uintptr) {
	for i := range p.regions {
		r := &p.regions[i]
		if addr >= r.base && addr < r.base+_PAGE_SIZE {
			return r, addr - r.base
		}
	}
	panic(fmt.Sprintf("itm: register 0x%08X is not mapped", addr))
}

func (p *periphPort) Read32(addr uintptr) uint32 {
	r, off := p.find(addr)
	return atomic.LoadUint32(&r.words[off/4])
}

func (p *periphPort) Write32(addr uintptr, v uint32) {
	r, off := p.find(addr)
	atomic.StoreUint32(&r.words[off/4], v)
}

func (p *periphPort) Write8(addr uintptr, v uint8) {
	r, off := p.find(addr)
	r.bytes[off] = v
}

// Close unbinds the port from the logger, then unmaps every register page.
// Records logged afterwards are dropped.
func (p *periphPort) Close() error {
	releasePort(p)

	var firstErr error
	for _, r := range p.regions {
		if err := r.view.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.regions = nil
	return firstErr
}

// mutexMask stands in for interrupt masking on a multi-core host.
type mutexMask struct {
	mu sync.Mutex
}

func (m *mutexMask) Disable() uintptr {
	m.mu.Lock()
	return 0
}

func (m *mutexMask) Restore(_ uintptr) {
	m.mu.Unlock()
}

// PeriphConfig holds the configuration for the Linux/periph.io port.
type PeriphConfig struct {
	Config
	// StimulusPort is the ITM channel to write to (0-31).
	StimulusPort uint8
	// ITMBase, SCSBase and TPIUBase are the physical addresses of the
	// component pages as seen from the host, e.g. through a debug access
	// port window. They default to the Cortex-M private peripheral bus
	// addresses.
	ITMBase  uint64
	SCSBase  uint64
	TPIUBase uint64
}

// NewPeriph maps the ITM, SCS and TPIU register pages through periph.io,
// checks that the ITM and TPIU pages identify as CoreSight components, binds
// them as the logger hardware and applies c.
// The returned closer unbinds and unmaps the pages.
func NewPeriph(c PeriphConfig) (io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}
	if c.StimulusPort >= _STIM_PORTS {
		return nil, fmt.Errorf("stimulus port must be between 0 and %d", _STIM_PORTS-1)
	}
	if c.ITMBase == 0 {
		c.ITMBase = _ITM_BASE
	}
	if c.SCSBase == 0 {
		c.SCSBase = _SCS_BASE
	}
	if c.TPIUBase == 0 {
		c.TPIUBase = _TPIU_BASE
	}

	port := &periphPort{}
	pages := []struct {
		base uintptr
		phys uint64
	}{
		{_ITM_BASE, c.ITMBase},
		{_SCS_BASE, c.SCSBase},
		{_TPIU_BASE, c.TPIUBase},
	}
	for _, pg := range pages {
		view, err := pmem.Map(pg.phys, _PAGE_SIZE)
		if err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to map registers at 0x%08X: %w", pg.phys, err)
		}
		port.regions = append(port.regions, region{
			base:  pg.base,
			view:  view,
			words: view.Uint32(),
			bytes: view.Bytes(),
		})
	}

	// Nothing has been written yet; refuse pages that are not trace units.
	if err := checkComponent(port, _ITM_BASE, "ITM"); err != nil {
		port.Close()
		return nil, err
	}
	if err := checkComponent(port, _TPIU_BASE, "TPIU"); err != nil {
		port.Close()
		return nil, err
	}

	hw := Hardware{Port: port, Mask: &mutexMask{}, StimulusPort: c.StimulusPort}
	if err := SetHardware(hw); err != nil {
		port.Close()
		return nil, err
	}
	if err := Configure(c.Config); err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}
