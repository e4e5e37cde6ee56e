// Package httpserver builds the gateway's HTTP server with timeouts sized
// for its traffic: small JSON request bodies, no streaming, no uploads.
package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second

	// Registration payloads top out around a few kilobytes of links and
	// description; a megabyte of headers means something is wrong.
	maxHeaderBytes = 1 << 20
)

// New builds the server. Handlers that need longer than the write timeout
// do not exist in this service.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
}
