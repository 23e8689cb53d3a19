package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.stop)
	return f.shutdownErr
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService("control-api", server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, int32(1), server.shutdowns.Load())
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	server := newFakeServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService("control-api", server, time.Second)

	err := svc.Serve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "control-api failed")
	assert.Contains(t, err.Error(), "address already in use")
	assert.Zero(t, server.shutdowns.Load())
}

func TestHTTPServerService_ShutdownFailure(t *testing.T) {
	server := newFakeServer()
	server.shutdownErr = errors.New("connections still open")
	svc := NewHTTPServerService("mock-provider", server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown failed")
	assert.Equal(t, "mock-provider", svc.String())
}

type countingService struct {
	name   string
	serves atomic.Int32
	fail   bool
}

func (c *countingService) Serve(ctx context.Context) error {
	n := c.serves.Add(1)
	if c.fail && n == 1 {
		return errors.New("transient failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *countingService) String() string { return c.name }

func TestTree_RunsAndRestartsServices(t *testing.T) {
	tree := NewTree("bank-sync", TreeConfig{FailureBackoff: 10 * time.Millisecond}, testLogger())

	worker := &countingService{name: "worker"}
	flaky := &countingService{name: "flaky", fail: true}
	tree.AddSyncService(worker)
	tree.AddAPIService(flaky)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool {
		return worker.serves.Load() == 1 && flaky.serves.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}

	report, err := tree.UnstoppedServiceReport()
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.Equal(t, int32(1), worker.serves.Load(), "healthy service must not be restarted")
}
