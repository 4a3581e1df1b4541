// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import (
	"fmt"
	"io"
)

// Resolver produces the answer records for a decoded request.
//
// Resolve returns the answers in question order. A nil error with an
// empty slice is a valid outcome; a non-nil error means the whole
// request failed and the caller must degrade to a question-only
// response rather than answer partially.
type Resolver interface {
	Resolve(request *Request) ([]*Record, error)
}

// Static is the [Resolver] used when no upstream resolver is
// configured: it synthesizes one placeholder A answer per question and
// never touches the network.
type Static struct{}

// Resolve implements [Resolver].
func (Static) Resolve(request *Request) ([]*Record, error) {
	answers := make([]*Record, 0, len(request.Questions))
	for i := range request.Questions {
		answers = append(answers, SyntheticA(&request.Questions[i]))
	}
	return answers, nil
}

// Forwarder is a [Resolver] that relays each question to an upstream
// resolver over a pre-connected datagram channel.
//
// Construct using [NewForwarder]. The channel must already be connected
// to the upstream address and must provide blocking send and receive
// semantics, like a connected [net.UDPConn]. There is no timeout and no
// retry: an upstream that never replies blocks the caller indefinitely,
// which is a known limitation of this design.
type Forwarder struct {
	conn io.ReadWriter
}

// NewForwarder constructs a [*Forwarder] using the given upstream
// channel.
func NewForwarder(conn io.ReadWriter) *Forwarder {
	return &Forwarder{conn: conn}
}

// Resolve implements [Resolver].
//
// Questions are resolved strictly one at a time: for each question the
// forwarder sends a single-question copy of the request upstream,
// blocks for the reply, and decodes exactly one answer record from it.
// If any question fails, the whole batch fails.
func (f *Forwarder) Resolve(request *Request) ([]*Record, error) {
	answers := make([]*Record, 0, len(request.Questions))
	for i := range request.Questions {
		answer, err := f.resolveOne(request.Header, &request.Questions[i])
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// resolveOne performs the upstream round-trip for a single question.
func (f *Forwarder) resolveOne(header Header, question *Question) (*Record, error) {
	// 1. build the upstream query: the inbound header with QDCOUNT
	// forced to one, followed by this question alone.
	header.QDCount = 1
	questionBytes := question.Encode()
	query := append(header.Encode(), questionBytes...)

	// 2. one blocking send, one blocking receive.
	if _, err := f.conn.Write(query); err != nil {
		return nil, fmt.Errorf("send to upstream: %w", err)
	}
	buf := make([]byte, maxDatagramSize)
	count, err := f.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("receive from upstream: %w", err)
	}
	reply := buf[:count]

	// 3. skip the reply header and the echoed question, whose length we
	// know because we just sent it, then decode the single answer.
	skip := HeaderSize + len(questionBytes)
	if len(reply) < skip {
		return nil, fmt.Errorf("%w: reply shorter than echoed question", ErrInvalidResponse)
	}
	return ParseRecord(reply[skip:])
}
