// SPDX-License-Identifier: GPL-3.0-or-later

// Command dnsfwd runs a minimal forwarding DNS server over UDP.
//
// Without flags it binds 127.0.0.1:2053 and answers every question with
// a placeholder A record. With -resolver host:port it relays each
// question to the given upstream resolver instead.
package main

import (
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bassosimone/dnsfwd"
	"github.com/sirupsen/logrus"
)

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:2053", "address to listen on for DNS queries")
	resolverAddr := flag.String("resolver", "", "upstream resolver host:port to forward questions to")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	conn, err := net.ListenPacket("udp", *listenAddr)
	if err != nil {
		log.Errorf("failed to bind %s: %s", *listenAddr, err)
		os.Exit(1)
	}
	defer conn.Close()

	var resolver dnsfwd.Resolver = dnsfwd.Static{}
	if *resolverAddr != "" {
		upstream, err := net.Dial("udp", *resolverAddr)
		if err != nil {
			log.Errorf("failed to connect upstream %s: %s", *resolverAddr, err)
			os.Exit(1)
		}
		defer upstream.Close()
		resolver = dnsfwd.NewForwarder(upstream)
		log.Infof("forwarding questions to %s", *resolverAddr)
	}

	// Closing the listening socket makes Serve return, which is the
	// only way to stop the fully synchronous receive loop.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Infof("received %s, shutting down", sig)
		conn.Close()
	}()

	log.Infof("listening on %s", conn.LocalAddr())
	server := dnsfwd.NewServer(conn, resolver, log)
	if err := server.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Errorf("serve: %s", err)
		os.Exit(1)
	}
}
