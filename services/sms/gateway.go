package sms

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Canned gateway failures.
var (
	ErrInvalidPhone       = errors.New("Invalid phone number format")
	ErrNetworkTimeout     = errors.New("Network timeout")
	ErrInsufficientCredit = errors.New("Insufficient SMS credits")
	ErrUnavailable        = errors.New("Service temporarily unavailable")
)

var cannedErrors = []error{ErrInvalidPhone, ErrNetworkTimeout, ErrInsufficientCredit, ErrUnavailable}

// Gateway delivers one text message.
type Gateway interface {
	Send(ctx context.Context, phone, message string) error
}

// SimulatedGateway stands in for a real SMS provider. Each send fails with
// probability FailureRate, picking one of the canned errors.
type SimulatedGateway struct {
	FailureRate float64
	Delay       time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulatedGateway(failureRate float64, seed int64) *SimulatedGateway {
	return &SimulatedGateway{
		FailureRate: failureRate,
		Delay:       200 * time.Millisecond,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

func (g *SimulatedGateway) Send(ctx context.Context, phone, message string) error {
	if g.Delay > 0 {
		t := time.NewTimer(g.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ErrNetworkTimeout
		case <-t.C:
		}
	}

	g.mu.Lock()
	roll := g.rnd.Float64()
	pick := g.rnd.Intn(len(cannedErrors))
	g.mu.Unlock()

	if roll < g.FailureRate {
		return cannedErrors[pick]
	}
	return nil
}
