// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import "encoding/binary"

// HeaderSize is the fixed size of the DNS message header in bytes.
const HeaderSize = 12

// Header is the fixed 12-byte DNS message header.
//
// Construct by filling the fields or using [ParseHeader]. Fields wider
// than their wire width (Opcode, Z, RCode) are truncated silently to
// their declared width by [Header.Encode].
type Header struct {
	// ID is the 16 bit identifier assigned by the program that
	// generates the query. It is copied into the corresponding reply
	// so the requester can match up replies to outstanding queries.
	ID uint16

	// QR is false for a query and true for a response.
	QR bool

	// Opcode is the four bit field specifying the kind of query.
	Opcode uint8

	// AA indicates an authoritative answer.
	AA bool

	// TC indicates that the message was truncated.
	TC bool

	// RD indicates that the requester desires recursion.
	RD bool

	// RA indicates that the server supports recursion.
	RA bool

	// Z is the three reserved bits, carried verbatim.
	Z uint8

	// RCode is the four bit response code.
	RCode uint8

	// QDCount is the number of entries in the question section.
	QDCount uint16

	// ANCount is the number of records in the answer section.
	ANCount uint16

	// NSCount is the number of records in the authority section.
	NSCount uint16

	// ARCount is the number of records in the additional section.
	ARCount uint16
}

// ParseHeader unpacks a [Header] from raw bytes.
//
// The input must be exactly [HeaderSize] bytes long, otherwise this
// function returns [ErrInvalidHeader].
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) != HeaderSize {
		return Header{}, ErrInvalidHeader
	}

	flags1 := raw[2]
	flags2 := raw[3]

	h := Header{
		ID:      binary.BigEndian.Uint16(raw[0:2]),
		QR:      flags1&0b1000_0000 != 0,
		Opcode:  (flags1 & 0b0111_1000) >> 3,
		AA:      flags1&0b0000_0100 != 0,
		TC:      flags1&0b0000_0010 != 0,
		RD:      flags1&0b0000_0001 != 0,
		RA:      flags2&0b1000_0000 != 0,
		Z:       (flags2 & 0b0111_0000) >> 4,
		RCode:   flags2 & 0b0000_1111,
		QDCount: binary.BigEndian.Uint16(raw[4:6]),
		ANCount: binary.BigEndian.Uint16(raw[6:8]),
		NSCount: binary.BigEndian.Uint16(raw[8:10]),
		ARCount: binary.BigEndian.Uint16(raw[10:12]),
	}
	return h, nil
}

// Encode packs the [Header] into its 12-byte wire form.
//
// The mapping is bit exact: for any header whose fields fit their wire
// widths, ParseHeader(h.Encode()) == h.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)

	binary.BigEndian.PutUint16(buf[0:2], h.ID)

	buf[2] = b2u8(h.QR)<<7 |
		(h.Opcode&0b1111)<<3 |
		b2u8(h.AA)<<2 |
		b2u8(h.TC)<<1 |
		b2u8(h.RD)

	buf[3] = b2u8(h.RA)<<7 |
		(h.Z&0b111)<<4 |
		h.RCode&0b1111

	binary.BigEndian.PutUint16(buf[4:6], h.QDCount)
	binary.BigEndian.PutUint16(buf[6:8], h.ANCount)
	binary.BigEndian.PutUint16(buf[8:10], h.NSCount)
	binary.BigEndian.PutUint16(buf[10:12], h.ARCount)

	return buf
}

func b2u8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
