// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeServer struct {
	serveErr    error
	shutdownErr error
	shutdown    chan struct{}
	release     chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		shutdown: make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.release
	return nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	close(f.shutdown)
	close(f.release)
	return f.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("serve returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}

	select {
	case <-srv.shutdown:
	default:
		t.Error("Shutdown never called")
	}
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = errors.New("address in use")
	svc := NewHTTPService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.serveErr) {
		t.Errorf("serve returned %v, want wrapped startup error", err)
	}
}

func TestTreeConfigDefaults(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 || cfg.FailureDecay != 30.0 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
}
