// SPDX-License-Identifier: GPL-3.0-or-later

package dnsfwd

import "net"

// Logger is the diagnostics interface injected into the [Server].
//
// It is satisfied by [github.com/sirupsen/logrus.Logger]. A nil Logger
// disables diagnostics.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopLogger discards all diagnostics.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// Server is the single-threaded UDP request loop.
//
// Construct using [NewServer]. The server owns no sockets: the listening
// connection is created and bound by the caller, and closing it is how
// the caller stops [Server.Serve].
type Server struct {
	conn     net.PacketConn
	log      Logger
	resolver Resolver
}

// NewServer constructs a [*Server] reading from conn and resolving with
// resolver. A nil resolver means [Static]. A nil logger disables
// diagnostics.
func NewServer(conn net.PacketConn, resolver Resolver, log Logger) *Server {
	if resolver == nil {
		resolver = Static{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Server{conn: conn, log: log, resolver: resolver}
}

// Serve processes datagrams until receiving fails, then returns the
// receive error. Each datagram is fully parsed, resolved, and answered
// before the next one is read: there is no concurrency anywhere, so a
// slow upstream stalls every client.
//
// Malformed datagrams are dropped without a reply. A resolver failure
// degrades to a question-only reply with a zero answer count. Neither
// terminates the loop.
func (s *Server) Serve() error {
	buf := make([]byte, maxDatagramSize)
	for {
		count, source, err := s.conn.ReadFrom(buf)
		if err != nil {
			s.log.Infof("receive failed, shutting down: %s", err)
			return err
		}
		s.log.Debugf("received %d bytes from %s", count, source)

		response, ok := s.handle(buf[:count])
		if !ok {
			continue
		}
		if _, err := s.conn.WriteTo(response, source); err != nil {
			s.log.Errorf("error writing response to %s: %s", source, err)
		}
	}
}

// handle turns one inbound datagram into a response datagram. The
// second return value is false when the datagram must be dropped.
func (s *Server) handle(datagram []byte) ([]byte, bool) {
	request, err := ParseRequest(datagram)
	if err != nil {
		s.log.Debugf("dropping malformed datagram: %s", err)
		return nil, false
	}
	for i := range request.Questions {
		s.log.Debugf("query %d/%d: %s type %d",
			i+1, len(request.Questions), request.Questions[i].Name, request.Questions[i].Type)
	}

	answers, err := s.resolver.Resolve(request)
	if err != nil {
		// All-or-nothing: no partial answer sets. The questions are
		// still echoed so the client sees a well-formed reply.
		s.log.Errorf("resolution failed: %s", err)
		answers = nil
	}
	return AssembleResponse(request, answers), true
}
