// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package h2server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Timeouts bounds a listening server's read/write/idle windows, to
// prevent a slow or malicious peer from holding a stream open
// indefinitely.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration

	// Shutdown bounds how long Serve waits for in-flight streams to
	// drain once ctx is done, before forcing the listener closed.
	Shutdown time.Duration
}

// DefaultTimeouts mirrors production-safe defaults: short enough to
// shed a slowloris-style peer, long enough for a legitimate slow
// client on a congested network.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadHeader: 10 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
	}
}

func (t Timeouts) orDefault() Timeouts {
	if t == (Timeouts{}) {
		return DefaultTimeouts()
	}
	return t
}

// Serve starts an HTTP/2 server on addr and blocks until ctx is done
// or the server fails to start, then drains in-flight streams within
// timeouts.Shutdown before returning. Canceling ctx (e.g. from
// signal.NotifyContext) is the only supported way to stop the server.
//
// cleartext selects h2c (HTTP/2 without TLS): only safe for local
// development or behind a trusted terminating proxy. A production
// deployment should serve TLS directly, where HTTP/2 is negotiated via
// ALPN with no h2c downgrade risk, by passing certFile/keyFile.
func Serve(ctx context.Context, addr string, h http.Handler, timeouts Timeouts, cleartext bool, certFile, keyFile string) error {
	timeouts = timeouts.orDefault()

	handler := h
	if cleartext {
		handler = h2c.NewHandler(h, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		ReadTimeout:       timeouts.Read,
		WriteTimeout:      timeouts.Write,
		IdleTimeout:       timeouts.Idle,
	}

	serverErr := make(chan error, 1)
	go func() {
		var err error
		if cleartext {
			err = srv.ListenAndServe()
		} else {
			err = srv.ListenAndServeTLS(certFile, keyFile)
		}
		if err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("h2server: failed to start: %w", err)
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("h2server: forced shutdown: %w", err)
	}
	return <-serverErr
}
