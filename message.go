// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import "errors"

// Errors returned while decoding and assembling DNS messages.
var (
	// ErrInvalidHeader means that the header bytes do not form a valid
	// 12-byte DNS header.
	ErrInvalidHeader = errors.New("invalid DNS header")

	// ErrInvalidQuestion means that the question section is malformed
	// or truncated.
	ErrInvalidQuestion = errors.New("invalid DNS question")

	// ErrInvalidResponse means that an upstream reply is malformed.
	ErrInvalidResponse = errors.New("invalid DNS response")
)

// rcodeNotImplemented is returned for any opcode other than a standard
// query, which is the only opcode this server implements.
const rcodeNotImplemented = 4

// maxDatagramSize is the maximum UDP payload this server sends or
// receives. Larger messages would need EDNS(0) or TCP, both of which
// are out of scope.
const maxDatagramSize = 512

// Request is one decoded inbound query message.
//
// Construct using [ParseRequest].
type Request struct {
	// Header is the decoded message header.
	Header Header

	// Questions holds the decoded question section, in wire order.
	Questions []Question
}

// ParseRequest decodes an inbound datagram into a [*Request].
//
// It fails with [ErrInvalidHeader] when the datagram is shorter than a
// header, and with [ErrInvalidQuestion] when the question section does
// not contain the QDCOUNT well-formed questions the header declares.
func ParseRequest(datagram []byte) (*Request, error) {
	if len(datagram) < HeaderSize {
		return nil, ErrInvalidHeader
	}

	header, err := ParseHeader(datagram[:HeaderSize])
	if err != nil {
		return nil, err
	}

	questions, err := ParseQuestions(datagram, HeaderSize, int(header.QDCount))
	if err != nil {
		return nil, err
	}

	return &Request{Header: header, Questions: questions}, nil
}

// ResponseHeader derives the response header from a request header.
//
// It is a pure function: the request header is echoed with QR forced
// true, the counts rewritten from the actual question and answer
// numbers, and RCODE set to zero for a standard query or to "not
// implemented" for every other opcode. All remaining fields, including
// the reserved Z bits, are carried over unchanged.
func ResponseHeader(request Header, questions, answers int) Header {
	response := request
	response.QR = true
	response.QDCount = uint16(questions)
	response.ANCount = uint16(answers)
	response.NSCount = 0
	response.ARCount = 0
	if request.Opcode == 0 {
		response.RCode = 0
	} else {
		response.RCode = rcodeNotImplemented
	}
	return response
}

// AssembleResponse builds the outbound datagram for a request: the
// response header, the echoed questions in their original order, and
// the answers in question order. Passing no answers produces the
// question-only degraded response used when forwarding fails.
func AssembleResponse(request *Request, answers []*Record) []byte {
	header := ResponseHeader(request.Header, len(request.Questions), len(answers))

	buf := header.Encode()
	for i := range request.Questions {
		buf = append(buf, request.Questions[i].Encode()...)
	}
	for _, answer := range answers {
		buf = append(buf, answer.Encode()...)
	}
	return buf
}
