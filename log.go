//go:build !itm_nolog

package itm

// Log forwards a record to the installed sink if level passes MaxLevel.
func Log(level Level, target, msg string) {
	if level == LevelOff || level > MaxLevel() {
		return
	}
	currentSink().Log(Record{Level: level, Target: target, Message: msg})
}

// Enabled reports whether a record at level would be written right now,
// so callers can skip building expensive messages.
func Enabled(level Level) bool {
	if level == LevelOff || level > MaxLevel() {
		return false
	}
	return currentSink().Enabled(level)
}

func Error(target, msg string) { Log(LevelError, target, msg) }
func Warn(target, msg string)  { Log(LevelWarn, target, msg) }
func Info(target, msg string)  { Log(LevelInfo, target, msg) }
func Debug(target, msg string) { Log(LevelDebug, target, msg) }
func Trace(target, msg string) { Log(LevelTrace, target, msg) }

// Flush flushes the installed sink.
func Flush() {
	currentSink().Flush()
}
