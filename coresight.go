package itm

import "fmt"

// checkComponent verifies that the page at base carries a CoreSight
// component ID (preamble 0x0D, 0x?0, 0x05, 0xB1). Anything else means the
// address does not hold a trace unit and must not be written.
func checkComponent(p Port, base uintptr, name string) error {
	cidr := [4]uint32{
		p.Read32(base+_CIDR0) & 0xFF,
		p.Read32(base+_CIDR1) & 0xFF,
		p.Read32(base+_CIDR2) & 0xFF,
		p.Read32(base+_CIDR3) & 0xFF,
	}
	if cidr[0] != 0x0D || cidr[1]&0x0F != 0 || cidr[2] != 0x05 || cidr[3] != 0xB1 {
		return fmt.Errorf("no CoreSight %s at 0x%08X (CIDR %02X %02X %02X %02X): %w",
			name, base, cidr[0], cidr[1], cidr[2], cidr[3], ErrNoHardware)
	}
	return nil
}
