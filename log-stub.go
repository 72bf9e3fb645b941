//go:build itm_nolog

package itm

// Logging is compiled out. The functions keep their signatures so call sites
// build unchanged; arguments are still evaluated by the caller and dropped.

func Log(level Level, target, msg string) {}

func Enabled(level Level) bool { return false }

func Error(target, msg string) {}
func Warn(target, msg string)  {}
func Info(target, msg string)  {}
func Debug(target, msg string) {}
func Trace(target, msg string) {}

func Flush() {}
