// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected Name
	}{
		{
			name:     "Simple",
			host:     "abc.com",
			expected: Name("\x03abc\x03com\x00"),
		},

		{
			name:     "TrailingDot",
			host:     "abc.com.",
			expected: Name("\x03abc\x03com\x00"),
		},

		{
			name:     "IDNA",
			host:     "bücher.example",
			expected: Name("\x0dxn--bcher-kva\x07example\x00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := NewName(tt.host)
			require.NoError(t, err)
			require.Equal(t, tt.expected, name)
		})
	}
}

func TestNewNameInvalid(t *testing.T) {
	tests := []struct {
		name string
		host string
	}{
		{"SpaceInLabel", "bad name.example"},
		{"EmptyLabel", "abc..com"},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewName(tt.host)
			require.Error(t, err)
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	// Names with every label length in range survive an encode and
	// decode unchanged.
	long := Name{63}
	for i := 0; i < 63; i++ {
		long = append(long, 'a')
	}
	long = append(long, 1, 'b', 0)

	for _, name := range []Name{
		Name("\x03abc\x03com\x00"),
		Name("\x01a\x00"),
		long,
	} {
		msg := append(make([]byte, HeaderSize), name.Encode()...)
		parsed, consumed, err := parseName(msg, HeaderSize)
		require.NoError(t, err)
		require.Equal(t, name, parsed)
		require.Equal(t, len(name), consumed)
	}
}

func TestNameString(t *testing.T) {
	name := runtimex.PanicOnError1(NewName("www.example.com"))
	require.Equal(t, "www.example.com", name.String())
}

func TestNameClone(t *testing.T) {
	name := runtimex.PanicOnError1(NewName("abc.com"))
	clone := name.Clone()
	require.Equal(t, name, clone)

	clone[1] = 'x'
	require.Equal(t, byte('a'), name[1])
}

// compressedFixture builds a message whose first name at offset 12 is
// abc.com inline and whose second name at offset 21 is www plus a
// pointer back to offset 12.
func compressedFixture() []byte {
	msg := make([]byte, HeaderSize)
	msg = append(msg, "\x03abc\x03com\x00"...)  // offset 12, 9 bytes
	msg = append(msg, "\x03www\xC0\x0C"...)     // offset 21, 6 bytes
	return msg
}

func TestParseNameCompression(t *testing.T) {
	msg := compressedFixture()

	// Decoding through the pointer expands to the same labels as
	// decoding the target directly, prefixed by the inline part.
	direct, _, err := parseName(msg, 12)
	require.NoError(t, err)
	require.Equal(t, Name("\x03abc\x03com\x00"), direct)

	expanded, consumed, err := parseName(msg, 21)
	require.NoError(t, err)
	require.Equal(t, Name("\x03www\x03abc\x03com\x00"), expanded)

	// Only the inline bytes count as consumed: the www label plus the
	// two pointer bytes, never the bytes at the pointer target.
	require.Equal(t, 6, consumed)
}

func TestParseNamePointerOnly(t *testing.T) {
	msg := compressedFixture()
	msg = append(msg, 0xC0, 0x0C) // offset 27: bare pointer to abc.com

	name, consumed, err := parseName(msg, 27)
	require.NoError(t, err)
	require.Equal(t, Name("\x03abc\x03com\x00"), name)
	require.Equal(t, 2, consumed)
}

func TestParseNamePointerLoop(t *testing.T) {
	msg := make([]byte, HeaderSize)
	msg = append(msg, 0xC0, 0x0C) // offset 12 points at itself

	_, _, err := parseName(msg, HeaderSize)
	require.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestParseNameInvalid(t *testing.T) {
	tests := []struct {
		name string
		tail []byte // appended after a 12-byte header
		at   int
	}{
		{"StartBeyondEnd", []byte("\x03abc\x03com\x00"), 100},
		{"ReservedLabelType", []byte{0x40, 'a'}, HeaderSize},
		{"LabelPastEnd", []byte{0x05, 'a', 'b'}, HeaderSize},
		{"MissingTerminator", []byte("\x03abc"), HeaderSize},
		{"TruncatedPointer", []byte{0xC0}, HeaderSize},
		{"PointerTargetPastEnd", []byte{0xC3, 0xFF}, HeaderSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := append(make([]byte, HeaderSize), tt.tail...)
			_, _, err := parseName(msg, tt.at)
			require.ErrorIs(t, err, ErrInvalidQuestion)
		})
	}
}

func TestParseNameAgainstMiekg(t *testing.T) {
	// Let miekg pack a compressed message sharing the example.com
	// suffix across questions, then expand both names ourselves.
	msg := new(dns.Msg)
	msg.Id = 7
	msg.Compress = true
	msg.Question = []dns.Question{
		{Name: "foo.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
		{Name: "bar.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
	}
	raw := runtimex.PanicOnError1(msg.Pack())

	first, consumed, err := parseName(raw, HeaderSize)
	require.NoError(t, err)
	require.Equal(t, Name("\x03foo\x07example\x03com\x00"), first)

	second, _, err := parseName(raw, HeaderSize+consumed+4)
	require.NoError(t, err)
	require.Equal(t, Name("\x03bar\x07example\x03com\x00"), second)
}
