package swo

import (
	"bytes"
	"strings"

	"github.com/michcald/itm"
)

// Line is one complete line received on a stimulus port, without the
// trailing newline.
type Line struct {
	Port uint8
	Text string
}

// Demux reassembles instrumentation payloads into lines per stimulus port.
type Demux struct {
	pending [32]bytes.Buffer
}

// Feed appends the payload of an instrumentation packet and returns every
// line it completed. Other packet kinds are ignored.
func (m *Demux) Feed(p Packet) []Line {
	if p.Kind != KindInstrumentation || int(p.Port) >= len(m.pending) {
		return nil
	}
	buf := &m.pending[p.Port]
	var lines []Line
	for _, b := range p.Payload {
		if b != '\n' {
			buf.WriteByte(b)
			continue
		}
		lines = append(lines, Line{Port: p.Port, Text: buf.String()})
		buf.Reset()
	}
	return lines
}

// Pending returns the unterminated text buffered for port.
func (m *Demux) Pending(port uint8) string {
	if int(port) >= len(m.pending) {
		return ""
	}
	return m.pending[port].String()
}

// Entry is a parsed log line.
type Entry struct {
	Level   itm.Level
	Target  string
	Message string
}

// ParseLine splits a line of the form "LEVEL [target] message", with the
// level padded to five columns. ok is false if text is not in that form.
func ParseLine(text string) (e Entry, ok bool) {
	if len(text) < 6 || text[5] != ' ' {
		return Entry{}, false
	}
	level, ok := itm.ParseLevel(strings.TrimRight(text[:5], " "))
	if !ok {
		return Entry{}, false
	}
	rest := text[6:]
	if !strings.HasPrefix(rest, "[") {
		return Entry{}, false
	}
	end := strings.Index(rest, "] ")
	if end < 0 {
		return Entry{}, false
	}
	return Entry{Level: level, Target: rest[1:end], Message: rest[end+2:]}, true
}
