package itm

// Cortex-M register addresses
const (
	_ITM_STIM0  = 0xE0000000 // + 4*n
	_ITM_TER    = 0xE0000E00 // Trace Enable Register
	_ITM_TCR    = 0xE0000E80 // Trace Control Register
	_DHCSR      = 0xE000EDF0 // Debug Halting Control and Status Register
	_TPIU_ACPR  = 0xE0040010 // Asynchronous Clock Prescaler Register
	_STIM_PORTS = 32
)

// Register bit definitions
const (
	_ITMENA    = 1 << 0 // ITM_TCR
	_C_DEBUGEN = 1 << 0 // DHCSR
	_FIFOREADY = 1 << 0 // ITM_STIMx read
)

// Region bases and sizes, as mapped by the host port.
const (
	_ITM_BASE  = 0xE0000000
	_SCS_BASE  = 0xE000E000
	_TPIU_BASE = 0xE0040000
	_PAGE_SIZE = 0x1000
)

// CoreSight component identification, at the end of every component page.
const (
	_CIDR0 = 0xFF0
	_CIDR1 = 0xFF4
	_CIDR2 = 0xFF8
	_CIDR3 = 0xFFC
)

func stimAddr(port uint8) uintptr {
	return uintptr(_ITM_STIM0) + 4*uintptr(port%_STIM_PORTS)
}
