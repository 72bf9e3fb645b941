// Package swo decodes the ITM packet stream a probe captures from the SWO pin
// back into the lines the device logged.
package swo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var ErrMalformed = errors.New("malformed ITM packet")

// Kind identifies an ITM packet type.
type Kind uint8

const (
	KindSync Kind = iota
	KindOverflow
	// KindInstrumentation is a software source packet written to a stimulus port.
	KindInstrumentation
	// KindHardware is a DWT hardware source packet.
	KindHardware
	KindLocalTimestamp
	KindGlobalTimestamp
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindOverflow:
		return "overflow"
	case KindInstrumentation:
		return "instrumentation"
	case KindHardware:
		return "hardware"
	case KindLocalTimestamp:
		return "local-timestamp"
	case KindGlobalTimestamp:
		return "global-timestamp"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Packet is one decoded ITM packet. Payload is only valid until the next
// call to Next.
type Packet struct {
	Kind Kind
	// Port is the stimulus port or DWT discriminator for source packets.
	Port    uint8
	Payload []byte
}

// Header bytes
const (
	_OVERFLOW = 0x70
	_SYNC_END = 0x80
	_GTS1     = 0x94
	_GTS2     = 0xB4
	_CONTINUE = 0x80
)

// Decoder reads ITM packets from a byte stream.
type Decoder struct {
	r       *bufio.Reader
	payload [4]byte
	ext     []byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next packet. It returns io.EOF at a clean end of stream
// and io.ErrUnexpectedEOF if the stream stops inside a packet. A packet is
// only consumed once it is complete, so after either error Next can be
// called again when more data has arrived.
func (d *Decoder) Next() (Packet, error) {
	for n := 1; ; n++ {
		b, err := d.r.Peek(n)
		if len(b) < n {
			switch {
			case errors.Is(err, bufio.ErrBufferFull):
				d.r.Discard(len(b))
				return Packet{}, fmt.Errorf("packet longer than %d bytes: %w", len(b), ErrMalformed)
			case n == 1:
				return Packet{}, err
			default:
				return Packet{}, unexpected(err)
			}
		}

		p, size, err := d.parse(b)
		if err != nil {
			d.r.Discard(size)
			return Packet{}, err
		}
		if size > 0 {
			d.r.Discard(size)
			return p, nil
		}
	}
}

// parse decodes the packet at the start of b. It returns a zero size when b
// holds only part of the packet. On error size is the number of bytes to
// skip.
func (d *Decoder) parse(b []byte) (Packet, int, error) {
	h := b[0]
	switch {
	case h == 0x00:
		return d.sync(b)
	case h == _OVERFLOW:
		return Packet{Kind: KindOverflow}, 1, nil
	case h&0x03 != 0:
		return d.source(b)
	case h == _GTS1 || h == _GTS2:
		return d.continuation(Packet{Kind: KindGlobalTimestamp}, b)
	case h&0x0F == 0:
		if h&_CONTINUE != 0 {
			return d.continuation(Packet{Kind: KindLocalTimestamp}, b)
		}
		d.ext = append(d.ext[:0], (h>>4)&0x07)
		return Packet{Kind: KindLocalTimestamp, Payload: d.ext}, 1, nil
	case h&0x0B == 0x08:
		if h&_CONTINUE != 0 {
			return d.continuation(Packet{Kind: KindExtension}, b)
		}
		return Packet{Kind: KindExtension}, 1, nil
	default:
		return Packet{}, 1, fmt.Errorf("header 0x%02X: %w", h, ErrMalformed)
	}
}

// sync matches a synchronization packet: at least 47 zero bits followed by
// a one.
func (d *Decoder) sync(b []byte) (Packet, int, error) {
	for i := 1; i < len(b); i++ {
		switch {
		case b[i] == 0x00:
		case b[i] == _SYNC_END && i >= 5:
			return Packet{Kind: KindSync}, i + 1, nil
		default:
			return Packet{}, i + 1, fmt.Errorf("sync after %d zero bytes ended with 0x%02X: %w", i, b[i], ErrMalformed)
		}
	}
	return Packet{}, 0, nil
}

// source matches an instrumentation or hardware source packet.
func (d *Decoder) source(b []byte) (Packet, int, error) {
	h := b[0]
	n := 1 << ((h & 0x03) - 1) // 01 -> 1, 10 -> 2, 11 -> 4
	if len(b) < 1+n {
		return Packet{}, 0, nil
	}
	copy(d.payload[:n], b[1:1+n])
	p := Packet{Kind: KindInstrumentation, Port: h >> 3, Payload: d.payload[:n]}
	if h&0x04 != 0 {
		p.Kind = KindHardware
	}
	return p, 1 + n, nil
}

// continuation matches a header followed by bytes that continue while bit 7
// is set.
func (d *Decoder) continuation(p Packet, b []byte) (Packet, int, error) {
	for i := 1; i < len(b); i++ {
		if b[i]&_CONTINUE != 0 {
			continue
		}
		d.ext = d.ext[:0]
		for _, c := range b[1 : i+1] {
			d.ext = append(d.ext, c&^_CONTINUE)
		}
		p.Payload = d.ext
		return p, i + 1, nil
	}
	return Packet{}, 0, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
