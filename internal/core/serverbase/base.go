// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Base holds the lifecycle fields of a server. Concrete servers embed it and
// call the Transition* helpers from their Start, serve and Stop methods.
//
// A Base is single-use: once stopped or failed, create a new server.
type Base struct {
	state atomic.Int32

	stateMu sync.Mutex
	lastErr error

	ctx    context.Context
	cancel context.CancelFunc

	wg        sync.WaitGroup
	startedCh chan struct{}
	doneCh    chan struct{}
	doneOnce  sync.Once
	errCh     chan error
}

// NewBase creates a Base in the Created state.
func NewBase() *Base {
	b := &Base{
		startedCh: make(chan struct{}),
		doneCh:    make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	b.state.Store(int32(StateCreated))
	return b
}

// State returns the current state (lock-free).
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning reports whether the server is in the Running state.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel for fatal runtime errors. It is closed by
// CloseErrChannel once the server has stopped.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *Base) LastError() error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.lastErr
}

// Context returns the lifecycle context, or nil before a successful start.
// It is cancelled when the server stops or fails.
func (b *Base) Context() context.Context {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.ctx
}

// StartedChannel is closed when the server transitions to Running.
func (b *Base) StartedChannel() <-chan struct{} {
	return b.startedCh
}

// Done is closed when the server reaches a terminal state.
func (b *Base) Done() <-chan struct{} {
	return b.doneCh
}

// TransitionToStarting moves Created to Starting. A context that is already
// cancelled fails the server instead.
func (b *Base) TransitionToStarting(ctx context.Context) error {
	select {
	case <-ctx.Done():
		b.TransitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return b.LastError()
	default:
	}

	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", b.State())
	}

	b.stateMu.Lock()
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.stateMu.Unlock()
	return nil
}

// TransitionToRunning moves Starting to Running and closes StartedChannel.
func (b *Base) TransitionToRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
}

// TransitionToFailed records err, moves to Failed and publishes err on Err
// without blocking.
func (b *Base) TransitionToFailed(err error) {
	b.stateMu.Lock()
	b.lastErr = err
	cancel := b.cancel
	b.stateMu.Unlock()

	b.state.Store(int32(StateFailed))
	if cancel != nil {
		cancel()
	}
	b.SendError(err)
	b.markDone()
}

// TransitionToStopping moves Starting or Running to Stopping and reports
// whether the caller must perform the shutdown. A server that never started
// goes straight to Stopped.
func (b *Base) TransitionToStopping() bool {
	for {
		current := b.State()
		switch current {
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				b.markDone()
				return false
			}
		case StateStarting, StateRunning:
			if b.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				b.stateMu.Lock()
				cancel := b.cancel
				b.stateMu.Unlock()
				if cancel != nil {
					cancel()
				}
				return true
			}
		default:
			return false
		}
	}
}

// TransitionToStopped marks the server stopped. Call it after every tracked
// goroutine has exited.
func (b *Base) TransitionToStopped() {
	b.state.Store(int32(StateStopped))
	b.markDone()
}

// WaitForShutdown blocks until every tracked goroutine has returned.
func (b *Base) WaitForShutdown() {
	b.wg.Wait()
}

// AddGoroutine must be called before starting a tracked goroutine.
func (b *Base) AddGoroutine() {
	b.wg.Add(1)
}

// DoneGoroutine must be deferred by every tracked goroutine.
func (b *Base) DoneGoroutine() {
	b.wg.Done()
}

// SendError publishes err on Err. The error is dropped if one is pending.
func (b *Base) SendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// CloseErrChannel closes Err. Call it once, after TransitionToStopped.
func (b *Base) CloseErrChannel() {
	close(b.errCh)
}

func (b *Base) markDone() {
	b.doneOnce.Do(func() { close(b.doneCh) })
}
