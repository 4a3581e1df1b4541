// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/stretchr/testify/require"
)

func TestRecordEncodeLayout(t *testing.T) {
	record := Record{
		Name:  Name("\x03abc\x03com\x00"),
		Type:  TypeA,
		Class: ClassIN,
		TTL:   60,
		Data:  []byte{1, 2, 3, 4},
	}

	expected := []byte("\x03abc\x03com\x00" +
		"\x00\x01" + // TYPE
		"\x00\x01" + // CLASS
		"\x00\x00\x00\x3C" + // TTL
		"\x00\x04" + // RDLENGTH
		"\x01\x02\x03\x04")
	require.Equal(t, expected, record.Encode())
}

func TestRecordRoundTrip(t *testing.T) {
	record := &Record{
		Name:  Name("\x03www\x07example\x03com\x00"),
		Type:  TypeA,
		Class: ClassIN,
		TTL:   3600,
		Data:  []byte{93, 184, 216, 34},
	}

	parsed, err := ParseRecord(record.Encode())
	require.NoError(t, err)
	require.Equal(t, record, parsed)
}

func TestParseRecordInvalid(t *testing.T) {
	valid := (&Record{
		Name:  Name("\x03abc\x03com\x00"),
		Type:  TypeA,
		Class: ClassIN,
		TTL:   60,
		Data:  []byte{1, 1, 1, 1},
	}).Encode()

	tests := []struct {
		name string
		raw  []byte
	}{
		{
			name: "Empty",
			raw:  nil,
		},

		{
			// A compressed or root answer name starts with a byte we
			// refuse: the forwarding path only supports inline names.
			name: "LeadingZero",
			raw:  append([]byte{0x00}, valid...),
		},

		{
			name: "PointerName",
			raw:  []byte{0xC0, 0x0C, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x00},
		},

		{
			name: "NameWithoutTerminator",
			raw:  []byte("\x03abc"),
		},

		{
			name: "TruncatedFixedFields",
			raw:  valid[:len(valid)-10],
		},

		{
			name: "RDataOverrun",
			raw:  valid[:len(valid)-1],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.raw)
			require.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestSyntheticA(t *testing.T) {
	question := runtimex.PanicOnError1(NewQuestion("abc.com", TypeA))

	answer := SyntheticA(question)
	require.Equal(t, question.Name, answer.Name)
	require.Equal(t, question.Type, answer.Type)
	require.Equal(t, question.Class, answer.Class)
	require.Equal(t, uint32(60), answer.TTL)
	require.Len(t, answer.Data, 4)

	// The answer owns its name: mutating it must not leak into the
	// originating question.
	answer.Name[1] = 'x'
	require.Equal(t, Name("\x03abc\x03com\x00"), question.Name)
}
