package itm

// Port represents raw access to the memory-mapped trace registers.
// Implementations must perform every access as a single volatile load or
// store of the given width, in program order.
type Port interface {
	// Read32 loads the 32-bit register at addr.
	Read32(addr uintptr) uint32
	// Write32 stores v to the 32-bit register at addr.
	Write32(addr uintptr, v uint32)
	// Write8 stores a single byte at addr.
	Write8(addr uintptr, v uint8)
}

// Mask represents the interrupt-exclusion primitive.
type Mask interface {
	// Disable masks interrupts and returns the previous mask state.
	Disable() uintptr
	// Restore puts back the mask state returned by Disable.
	Restore(state uintptr)
}

// Hardware bundles everything the logger touches.
type Hardware struct {
	Port Port
	Mask Mask
	// StimulusPort is the ITM stimulus channel (0-31) the logger writes to.
	StimulusPort uint8
}

type nopMask struct{}

func (nopMask) Disable() uintptr  { return 0 }
func (nopMask) Restore(_ uintptr) {}
