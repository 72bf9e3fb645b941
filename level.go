package itm

// Level is the severity of a record. Lower values are more severe.
type Level uint8

const (
	// LevelOff lets nothing through when used as a max level.
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = [...]string{"OFF", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel returns the Level named s, as printed by String.
func ParseLevel(s string) (Level, bool) {
	for i := LevelError; i <= LevelTrace; i++ {
		if levelNames[i] == s {
			return i, true
		}
	}
	return LevelOff, false
}
