//go:build itm_readycheck

package itm

// checkReadiness gates every record on the debugger, ITM and stimulus
// channel enable bits so that a write never spins on an undrained FIFO.
const checkReadiness = true
