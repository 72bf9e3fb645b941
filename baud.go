package itm

// ComputePrescaler returns the TPIU prescaler that divides traceClkHz down to
// exactly baud. It fails with ErrImpossibleBaudRate when baud is zero, greater
// than traceClkHz, or does not divide it evenly.
func ComputePrescaler(traceClkHz, baud uint32) (uint32, error) {
	if baud == 0 || baud > traceClkHz || traceClkHz%baud != 0 {
		return 0, ErrImpossibleBaudRate
	}
	return traceClkHz/baud - 1, nil
}

// UpdateBaudRate programs the TPIU prescaler so that SWO runs at baud.
// traceClkHz is the frequency of TRACECLKIN, which is HCLK on most parts but
// is implementation specific.
// It may be called again at any time, e.g. after a clock source change.
func UpdateBaudRate(traceClkHz, baud uint32) error {
	prescaler, err := ComputePrescaler(traceClkHz, baud)
	if err != nil {
		return err
	}
	port := hardware().Port
	if port == nil {
		return ErrNoHardware
	}
	port.Write32(_TPIU_ACPR, prescaler)
	return nil
}
