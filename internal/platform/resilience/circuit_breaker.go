package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards calls to the newswire and imagefinder
// upstreams. A streak of failures opens it; after the open timeout a
// bounded number of trial requests decide whether it closes again.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	state          CircuitState
	failureStreak  int
	openedAt       time.Time
	halfOpenActive int
	halfOpenPassed int
	now            func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed. Callers must follow up
// with RecordSuccess or RecordFailure when Allow returned nil.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.state == CircuitStateOpen {
		if now.Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.toHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.halfOpenActive >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.halfOpenActive++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureStreak = 0
	case CircuitStateHalfOpen:
		if b.halfOpenActive > 0 {
			b.halfOpenActive--
		}
		b.halfOpenPassed++
		if b.halfOpenPassed >= b.halfOpenMaxReq && b.halfOpenActive == 0 {
			b.toClosed()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureStreak++
		if b.failureStreak >= b.failureThreshold {
			b.toOpen()
		}
	case CircuitStateHalfOpen:
		if b.halfOpenActive > 0 {
			b.halfOpenActive--
		}
		b.toOpen()
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

// State reports the effective state; an expired open window reads as
// half-open even before the next Allow transitions it.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) >= b.openTimeout {
			return CircuitStateHalfOpen
		}
	}

	return b.state
}

func (b *CircuitBreaker) toClosed() {
	b.state = CircuitStateClosed
	b.failureStreak = 0
	b.halfOpenActive = 0
	b.halfOpenPassed = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) toOpen() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.halfOpenActive = 0
	b.halfOpenPassed = 0
}

func (b *CircuitBreaker) toHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.halfOpenActive = 0
	b.halfOpenPassed = 0
}
