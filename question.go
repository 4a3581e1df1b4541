// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"encoding/binary"
	"fmt"
)

// DNS wire constants used by this package. We only synthesize A records
// in the IN class; other values are carried opaquely.
const (
	// TypeA is the IPv4 host address record type.
	TypeA uint16 = 1

	// ClassIN is the Internet class.
	ClassIN uint16 = 1
)

// Question is one entry of the question section.
//
// Construct using [NewQuestion] or by decoding a message with
// [ParseQuestions].
type Question struct {
	// Name is the MANDATORY domain name being asked about.
	Name Name

	// Type is the query type, e.g. [TypeA].
	Type uint16

	// Class is the query class, almost always [ClassIN].
	Class uint16
}

// NewQuestion constructs a [*Question] for the given host string and
// query type in the IN class. The host goes through [NewName], so it
// may be a non-ASCII or fully-qualified name.
func NewQuestion(host string, qtype uint16) (*Question, error) {
	name, err := NewName(host)
	if err != nil {
		return nil, err
	}
	return &Question{Name: name, Type: qtype, Class: ClassIN}, nil
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	return &Question{
		Name:  q.Name.Clone(),
		Type:  q.Type,
		Class: q.Class,
	}
}

// Encode packs the question into its wire form: the name bytes followed
// by the type and class as big-endian 16 bit values.
func (q *Question) Encode() []byte {
	buf := make([]byte, 0, len(q.Name)+4)
	buf = append(buf, q.Name...)
	buf = binary.BigEndian.AppendUint16(buf, q.Type)
	buf = binary.BigEndian.AppendUint16(buf, q.Class)
	return buf
}

// ParseQuestions decodes count questions from msg starting at offset.
//
// The msg slice must be the entire DNS message, header included, so
// that compression pointers inside question names resolve correctly.
// The returned questions appear in wire order. Any truncated or
// malformed question yields [ErrInvalidQuestion].
func ParseQuestions(msg []byte, offset int, count int) ([]Question, error) {
	questions := make([]Question, 0, count)
	cursor := offset

	for i := 0; i < count; i++ {
		name, consumed, err := parseName(msg, cursor)
		if err != nil {
			return nil, err
		}
		cursor += consumed

		if cursor+4 > len(msg) {
			return nil, fmt.Errorf("%w: question %d truncated", ErrInvalidQuestion, i)
		}
		questions = append(questions, Question{
			Name:  name,
			Type:  binary.BigEndian.Uint16(msg[cursor : cursor+2]),
			Class: binary.BigEndian.Uint16(msg[cursor+2 : cursor+4]),
		})
		cursor += 4
	}

	return questions, nil
}
