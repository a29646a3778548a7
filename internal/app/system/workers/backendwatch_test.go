package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
	n   int
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return f.err
}

func (f *fakePinger) set(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func TestBackendWatch_LogsTransitionsOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := &fakePinger{err: errors.New("connection refused")}
	w := NewBackendWatch(p, zap.New(core), time.Hour, time.Second)

	w.Check()
	w.Check()
	if w.Up() {
		t.Fatal("expected down")
	}
	if n := logs.FilterMessage("backend unreachable").Len(); n != 1 {
		t.Errorf("unreachable logged %d times, want 1", n)
	}

	p.set(nil)
	w.Check()
	w.Check()
	if !w.Up() {
		t.Fatal("expected up")
	}
	if n := logs.FilterMessage("backend reachable again").Len(); n != 1 {
		t.Errorf("recovery logged %d times, want 1", n)
	}
}

func TestBackendWatch_StartStop(t *testing.T) {
	p := &fakePinger{}
	w := NewBackendWatch(p, zap.NewNop(), time.Hour, time.Second)

	w.Start()
	w.Stop()

	if !w.Up() {
		t.Error("Start should run an immediate check")
	}
	if p.n != 1 {
		t.Errorf("pings = %d, want 1", p.n)
	}
}
