// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnsfwd is a minimal forwarding DNS server core.
//
// The package implements the DNS wire format by hand at the level of
// RFC 1035 section 4: [ParseHeader] and [Header.Encode] pack and unpack
// the fixed 12-byte header, [ParseQuestions] and [Question.Encode] handle
// the question section including compression-pointer expansion, and
// [ParseRecord] and [Record.Encode] handle answer resource records.
//
// [ParseRequest] decodes one inbound datagram, a [Resolver] produces the
// answers (either [Static] placeholder answers or a [Forwarder] that
// performs one blocking upstream round-trip per question), and
// [AssembleResponse] produces the outbound datagram. [Server.Serve] ties
// these together in a single-threaded UDP receive loop.
//
// The scope is deliberately narrow: UDP only, single 512-byte datagrams,
// no EDNS(0), no DNSSEC, no caching, and no concurrency.
package dnsfwd
