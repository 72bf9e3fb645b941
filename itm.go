package itm

import (
	"errors"
)

var (
	ErrImpossibleBaudRate = errors.New("impossible baud rate")
	ErrAlreadyInstalled   = errors.New("logger already installed")
	ErrNoHardware         = errors.New("no trace hardware configured")
)

// itmLogger writes records to an ITM stimulus port.
// All fields are only touched with interrupts masked.
type itmLogger struct {
	hw        Hardware
	installed bool
	enabled   bool
	level     Level
}

var logger = itmLogger{
	hw:      Hardware{Mask: nopMask{}},
	enabled: true,
	level:   LevelTrace,
}

// SetHardware binds the logger to the given trace registers and interrupt
// mask. It must be called before the logger is installed.
func SetHardware(h Hardware) error {
	if h.Mask == nil {
		h.Mask = nopMask{}
	}
	state := logger.hw.Mask.Disable()
	defer logger.hw.Mask.Restore(state)

	if logger.installed {
		return ErrAlreadyInstalled
	}
	logger.hw = h
	return nil
}

// releasePort unbinds p if it is the bound port. Records are dropped from
// then on instead of touching registers that are no longer mapped.
func releasePort(p Port) {
	state := logger.hw.Mask.Disable()
	defer logger.hw.Mask.Restore(state)
	if logger.hw.Port == p {
		logger.hw.Port = nil
	}
}

func hardware() Hardware {
	state := logger.hw.Mask.Disable()
	defer logger.hw.Mask.Restore(state)
	return logger.hw
}

// Init installs the ITM logger at LevelTrace.
// It panics if a logger is already installed.
func Init() {
	if err := InitWithLevel(LevelTrace); err != nil {
		panic(err)
	}
}

// InitWithLevel installs the ITM logger as the program wide sink. Records
// less severe than level are dropped for the rest of the program.
func InitWithLevel(level Level) error {
	state := logger.hw.Mask.Disable()
	defer logger.hw.Mask.Restore(state)

	if err := SetSink(&logger); err != nil {
		return err
	}
	logger.installed = true
	logger.level = level
	SetMaxLevel(level)
	return nil
}

// Enable resumes output. It is safe to call from an interrupt handler.
func Enable() {
	logger.setEnabled(true)
}

// Disable drops every record until Enable is called. It is safe to call from
// an interrupt handler.
func Disable() {
	logger.setEnabled(false)
}

func (l *itmLogger) setEnabled(enabled bool) {
	state := l.hw.Mask.Disable()
	defer l.hw.Mask.Restore(state)
	l.enabled = enabled
}

// Enabled reports whether a record at level would currently be written.
func (l *itmLogger) Enabled(level Level) bool {
	state := l.hw.Mask.Disable()
	defer l.hw.Mask.Restore(state)
	return l.admit(level, checkReadiness)
}

// Log writes r as a single line if it is admissible. The check and the write
// happen under one masked region so lines never interleave.
func (l *itmLogger) Log(r Record) {
	state := l.hw.Mask.Disable()
	defer l.hw.Mask.Restore(state)

	if !l.admit(r.Level, checkReadiness) {
		return
	}
	l.emit(r)
}

func (l *itmLogger) Flush() {}

// admit decides whether a record may be written. Must be called with
// interrupts masked.
func (l *itmLogger) admit(level Level, checkHardware bool) bool {
	if !l.enabled {
		return false
	}
	if level == LevelOff || level > l.level {
		return false
	}
	if l.hw.Port == nil {
		return false
	}
	if checkHardware && !l.ready() {
		return false
	}
	return true
}

// ready reports whether a debugger is attached and both the ITM and our
// stimulus port are enabled. If any is off, nothing drains the FIFO and a
// write would spin forever.
func (l *itmLogger) ready() bool {
	p := l.hw.Port
	if p.Read32(_DHCSR)&_C_DEBUGEN == 0 {
		return false
	}
	if p.Read32(_ITM_TCR)&_ITMENA == 0 {
		return false
	}
	return p.Read32(_ITM_TER)&(1<<(l.hw.StimulusPort%_STIM_PORTS)) != 0
}

// emit writes "<LEVEL> [<target>] <message>\n" with the level left aligned
// to five columns.
func (l *itmLogger) emit(r Record) {
	w := stimWriter{port: l.hw.Port, addr: stimAddr(l.hw.StimulusPort)}
	name := r.Level.String()
	w.putString(name)
	for i := len(name); i < 5; i++ {
		w.putByte(' ')
	}
	w.putString(" [")
	w.putString(r.Target)
	w.putString("] ")
	w.putString(r.Message)
	w.putByte('\n')
	w.flush()
}

// stimWriter packs bytes into 32-bit stimulus writes and sends the tail
// byte by byte.
type stimWriter struct {
	port Port
	addr uintptr
	buf  [4]byte
	n    int
}

func (w *stimWriter) putString(s string) {
	for i := 0; i < len(s); i++ {
		w.putByte(s[i])
	}
}

func (w *stimWriter) putByte(c byte) {
	w.buf[w.n] = c
	w.n++
	if w.n == len(w.buf) {
		w.wait()
		w.port.Write32(w.addr, uint32(w.buf[0])|uint32(w.buf[1])<<8|uint32(w.buf[2])<<16|uint32(w.buf[3])<<24)
		w.n = 0
	}
}

func (w *stimWriter) flush() {
	for i := 0; i < w.n; i++ {
		w.wait()
		w.port.Write8(w.addr, w.buf[i])
	}
	w.n = 0
}

// wait spins until the stimulus FIFO can take another write.
func (w *stimWriter) wait() {
	for w.port.Read32(w.addr)&_FIFOREADY == 0 {
	}
}
