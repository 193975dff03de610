package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// 确保收到取消信号时会触发服务器优雅关闭。
func TestRunServer_ShutdownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := newStubServer()

	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, srv, 500*time.Millisecond)
	}()

	srv.waitStarted(t)

	cancel()

	srv.waitShutdown(t)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("runServer did not return after cancel")
	}

	if !srv.closed.Load() {
		t.Fatalf("expected server to be closed")
	}
}

type stubServer struct {
	started        chan struct{}
	shutdownCalled chan struct{}
	closed         atomic.Bool
}

func newStubServer() *stubServer {
	return &stubServer{
		started:        make(chan struct{}),
		shutdownCalled: make(chan struct{}),
	}
}

func (s *stubServer) ListenAndServe() error {
	close(s.started)
	<-s.shutdownCalled
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.shutdownCalled)
	return nil
}

func (s *stubServer) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
}

func (s *stubServer) waitShutdown(t *testing.T) {
	t.Helper()
	select {
	case <-s.shutdownCalled:
	case <-time.After(time.Second):
		t.Fatal("server shutdown was not called")
	}
}

// 监听失败时直接返回错误，不等待取消。
func TestRunServer_ListenError(t *testing.T) {
	t.Parallel()

	srv := &failingServer{err: errors.New("address already in use")}
	err := runServer(context.Background(), srv, 100*time.Millisecond)
	if err == nil || err.Error() != "address already in use" {
		t.Fatalf("expected listen error, got %v", err)
	}
	if !srv.shutdown.Load() {
		t.Fatalf("expected shutdown after listen failure")
	}
}

type failingServer struct {
	err      error
	shutdown atomic.Bool
}

func (s *failingServer) ListenAndServe() error { return s.err }

func (s *failingServer) Shutdown(context.Context) error {
	s.shutdown.Store(true)
	return nil
}
