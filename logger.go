package itm

import "sync/atomic"

// Record is a single log line in flight. It only lives for the duration of
// one Log call.
type Record struct {
	Level Level
	// Target names the origin of the record, usually a module or subsystem.
	Target  string
	Message string
}

// Sink receives records from the package level logging functions.
// Only one sink can be installed per program.
type Sink interface {
	Enabled(level Level) bool
	Log(r Record)
	Flush()
}

const (
	sinkUninitialized uint32 = iota
	sinkInitializing
	sinkInstalled
)

var (
	sinkState atomic.Uint32
	sink      Sink = nopSink{}
	maxLevel  atomic.Uint32
)

// SetSink installs s as the program wide sink.
// It returns ErrAlreadyInstalled if a sink has been installed before; the
// installed sink is never replaced.
func SetSink(s Sink) error {
	if !sinkState.CompareAndSwap(sinkUninitialized, sinkInitializing) {
		return ErrAlreadyInstalled
	}
	sink = s
	sinkState.Store(sinkInstalled)
	return nil
}

// SetMaxLevel sets the most verbose level the logging functions forward.
func SetMaxLevel(l Level) {
	maxLevel.Store(uint32(l))
}

// MaxLevel returns the level set by SetMaxLevel.
func MaxLevel() Level {
	return Level(maxLevel.Load())
}

func currentSink() Sink {
	if sinkState.Load() != sinkInstalled {
		return nopSink{}
	}
	return sink
}

// nopSink is a sink that does nothing.
type nopSink struct{}

func (nopSink) Enabled(Level) bool { return false }
func (nopSink) Log(Record)         {}
func (nopSink) Flush()             {}
