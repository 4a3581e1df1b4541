// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"encoding/binary"
	"fmt"
)

// placeholderTTL is the TTL of locally synthesized answers.
const placeholderTTL = 60

// placeholderRData is the IPv4 payload of locally synthesized answers.
// It is a stub, not a real resolution result.
var placeholderRData = []byte{1, 1, 1, 1}

// Record is one answer resource record.
//
// The wire-form RDLENGTH field is not stored: it is always exactly
// len(Data), both when encoding and after a successful decode.
type Record struct {
	// Name is the domain name the record describes.
	Name Name

	// Type is the record type, e.g. [TypeA].
	Type uint16

	// Class is the record class, almost always [ClassIN].
	Class uint16

	// TTL is the caching lifetime in seconds.
	TTL uint32

	// Data is the record payload, e.g. four bytes for [TypeA].
	Data []byte
}

// SyntheticA builds the placeholder answer the server returns when no
// upstream resolver is configured: the question's own name, type and
// class, a fixed 60 second TTL, and a stub IPv4 payload.
func SyntheticA(q *Question) *Record {
	return &Record{
		Name:  q.Name.Clone(),
		Type:  q.Type,
		Class: q.Class,
		TTL:   placeholderTTL,
		Data:  append([]byte(nil), placeholderRData...),
	}
}

// Encode packs the record into its wire form: name, type, class, TTL,
// RDLENGTH, and RDATA, all integers big-endian.
func (r *Record) Encode() []byte {
	buf := make([]byte, 0, len(r.Name)+10+len(r.Data))
	buf = append(buf, r.Name...)
	buf = binary.BigEndian.AppendUint16(buf, r.Type)
	buf = binary.BigEndian.AppendUint16(buf, r.Class)
	buf = binary.BigEndian.AppendUint32(buf, r.TTL)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(r.Data)))
	buf = append(buf, r.Data...)
	return buf
}

// ParseRecord decodes a single answer record from raw, which must start
// at the record's first byte.
//
// Only inline names are supported here: a pointer tag or a leading zero
// byte yields [ErrInvalidResponse]. This is a known limitation of the
// forwarding path, which cannot consume upstream replies that compress
// the answer name.
func ParseRecord(raw []byte) (*Record, error) {
	// 1. decode the inline name: length-prefixed labels up to a zero.
	if len(raw) < 1 || raw[0] == 0 {
		return nil, fmt.Errorf("%w: missing answer name", ErrInvalidResponse)
	}
	cursor := 0
	for {
		if cursor >= len(raw) {
			return nil, fmt.Errorf("%w: answer name extends past end", ErrInvalidResponse)
		}
		length := raw[cursor]
		if length == 0 {
			cursor++
			break
		}
		if length > maxLabelLength {
			return nil, fmt.Errorf("%w: unsupported answer label type 0x%02x", ErrInvalidResponse, length)
		}
		cursor += 1 + int(length)
	}
	name := append(Name(nil), raw[:cursor]...)

	// 2. decode the fixed fields following the name.
	if cursor+10 > len(raw) {
		return nil, fmt.Errorf("%w: answer fields truncated", ErrInvalidResponse)
	}
	record := &Record{
		Name:  name,
		Type:  binary.BigEndian.Uint16(raw[cursor : cursor+2]),
		Class: binary.BigEndian.Uint16(raw[cursor+2 : cursor+4]),
		TTL:   binary.BigEndian.Uint32(raw[cursor+4 : cursor+8]),
	}
	rdlength := int(binary.BigEndian.Uint16(raw[cursor+8 : cursor+10]))
	cursor += 10

	// 3. take exactly RDLENGTH bytes of RDATA.
	if cursor+rdlength > len(raw) {
		return nil, fmt.Errorf("%w: RDLENGTH %d overruns answer", ErrInvalidResponse, rdlength)
	}
	record.Data = append([]byte(nil), raw[cursor:cursor+rdlength]...)
	return record, nil
}
