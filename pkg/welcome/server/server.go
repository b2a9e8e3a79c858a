/*
Copyright 2026 The Skaffold Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/config"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	werrors "github.com/GoogleContainerTools/welcome/pkg/welcome/errors"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

var listen = net.Listen

// Server serves a handler on the configured address until its context is cancelled.
type Server struct {
	out      io.Writer
	opts     config.WelcomeOptions
	listener net.Listener
	srv      *http.Server
}

func New(out io.Writer, opts config.WelcomeOptions, handler http.Handler) *Server {
	return &Server{
		out:  out,
		opts: opts,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Listen acquires the listen address. A failure is returned as a *errors.BindError
// and is never retried.
func (s *Server) Listen() error {
	addr := s.opts.Address()
	l, err := listen("tcp", addr)
	if err != nil {
		return &werrors.BindError{Addr: addr, Err: err}
	}
	s.listener = l
	return nil
}

// Addr is the address the server is bound to, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL is the http URL of the bound address.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s", s.listener.Addr())
}

// Serve accepts connections until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout before closing them.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	ctx = log.WithEventContext(ctx, constants.Serve, constants.SubtaskIDNone)

	s.printBanner()
	log.Entry(ctx).Infof("serving on %s", s.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(ctx)
	})
	return g.Wait()
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) shutdown(ctx context.Context) error {
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = constants.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Entry(ctx).Infof("shutting down, waiting up to %s for requests to finish", timeout)
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		log.Entry(ctx).Warnf("forcing shutdown: %v", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) printBanner() {
	debugMode := "off"
	if s.opts.Debug {
		debugMode = "on"
	}
	fmt.Fprintf(s.out, " * Serving %s app\n", constants.AppName)
	fmt.Fprintf(s.out, " * Debug mode: %s\n", debugMode)
	fmt.Fprintf(s.out, " * Running on %s\n", s.URL())
}
