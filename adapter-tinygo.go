//go:build tinygo

package itm

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

func init() {
	logger.hw = Hardware{Port: tinygoPort{}, Mask: tinygoMask{}}
}

// tinygoPort accesses the trace registers directly at their fixed
// addresses.
type tinygoPort struct{}

func (tinygoPort) Read32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (tinygoPort) Write32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

func (tinygoPort) Write8(addr uintptr, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(addr)), v)
}

// tinygoMask masks interrupts on the current core.
type tinygoMask struct{}

func (tinygoMask) Disable() uintptr {
	return uintptr(interrupt.Disable())
}

func (tinygoMask) Restore(state uintptr) {
	interrupt.Restore(interrupt.State(state))
}
