// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

const (
	// maxLabelLength is the maximum length of a single name label.
	maxLabelLength = 63

	// pointerTag marks the two top bits identifying a compression pointer.
	pointerTag = 0b1100_0000

	// maxPointerHops caps the number of compression pointers we are
	// willing to chase while expanding a single name, so that a pointer
	// loop inside a hostile message cannot hang the decoder.
	maxPointerHops = 16
)

// Name is a domain name in wire form: a sequence of length-prefixed
// labels terminated by a zero byte.
//
// A Name produced by this package is always fully expanded, meaning it
// never contains compression pointers. Construct using [NewName] or by
// decoding a message.
type Name []byte

// NewName converts a host string such as "www.example.com" into its
// wire form. The host is IDNA encoded first, exactly like query names
// in a stub resolver, so non-ASCII input becomes punycode labels. A
// trailing dot is accepted and ignored.
func NewName(host string) (Name, error) {
	punyName, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return nil, err
	}
	punyName = strings.TrimSuffix(punyName, ".")

	var name Name
	for _, label := range strings.Split(punyName, ".") {
		if len(label) < 1 || len(label) > maxLabelLength {
			return nil, fmt.Errorf("%w: label %q", ErrInvalidQuestion, label)
		}
		name = append(name, byte(len(label)))
		name = append(name, label...)
	}
	name = append(name, 0)
	return name, nil
}

// Encode returns the wire form of the name.
//
// Compression is never emitted: the name is already expanded, so its
// bytes go out as-is.
func (n Name) Encode() []byte {
	return append([]byte(nil), n...)
}

// Clone returns an independent copy of the name.
func (n Name) Clone() Name {
	return append(Name(nil), n...)
}

// String renders the name in dotted notation, without a trailing dot,
// for logs and diagnostics.
func (n Name) String() string {
	var labels []string
	for index := 0; index < len(n); {
		length := int(n[index])
		if length == 0 || index+1+length > len(n) {
			break
		}
		labels = append(labels, string(n[index+1:index+1+length]))
		index += 1 + length
	}
	return strings.Join(labels, ".")
}

// parseName decodes a name from msg starting at the given offset.
//
// The msg slice MUST be the entire DNS message including the header:
// compression pointers carry offsets relative to the start of the whole
// message, so resolving them against any sub-slice would be off by the
// size of whatever was cut away.
//
// The second return value is the number of bytes the name occupies at
// the call site: inline label bytes plus, when the name ends in a
// compression pointer, the two pointer bytes. Bytes read at a pointer
// target live elsewhere in the message and are never counted.
func parseName(msg []byte, start int) (Name, int, error) {
	var name Name
	index := start
	consumed := 0
	hops := 0
	jumped := false

	for {
		if index < 0 || index >= len(msg) {
			return nil, 0, fmt.Errorf("%w: name extends past message end", ErrInvalidQuestion)
		}

		switch lead := msg[index]; {
		case lead == 0:
			// 1. terminator: emit it and stop.
			name = append(name, 0)
			index++
			if !jumped {
				consumed = index - start
			}
			return name, consumed, nil

		case lead&pointerTag == pointerTag:
			// 2. compression pointer: 14 bit offset from the low six
			// bits of this byte plus the next byte. A pointer is always
			// name-terminal, so the call site consumes exactly the two
			// pointer bytes and decoding continues at the target.
			if index+1 >= len(msg) {
				return nil, 0, fmt.Errorf("%w: truncated compression pointer", ErrInvalidQuestion)
			}
			if !jumped {
				consumed = index + 2 - start
				jumped = true
			}
			hops++
			if hops > maxPointerHops {
				return nil, 0, fmt.Errorf("%w: compression pointer chain too long", ErrInvalidQuestion)
			}
			index = int(lead&^pointerTag)<<8 | int(msg[index+1])

		case lead <= maxLabelLength:
			// 3. ordinary label: copy the length byte and the label
			// bytes verbatim.
			end := index + 1 + int(lead)
			if end > len(msg) {
				return nil, 0, fmt.Errorf("%w: label extends past message end", ErrInvalidQuestion)
			}
			name = append(name, msg[index:end]...)
			index = end

		default:
			// 4. 0b01 and 0b10 top bit combinations are reserved.
			return nil, 0, fmt.Errorf("%w: reserved label type 0x%02x", ErrInvalidQuestion, lead)
		}
	}
}
