package gate

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned to an activation superseded by a newer one. Its
// result has been dropped.
var ErrStale = errors.New("stale decision discarded")

type Decider interface {
	Decide(ctx context.Context, screen Screen) (Action, error)
}

// Navigator fences Decide calls. Every Activate takes the next generation
// number and cancels the in-flight activation, if any. Only the latest
// generation may apply its result.
type Navigator struct {
	decider Decider

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current Screen
	last    Action
}

func NewNavigator(d Decider) *Navigator {
	return &Navigator{decider: d}
}

// Activate decides for screen. On success the Navigator records the
// action's target as the current screen. Superseded calls get ErrStale.
func (n *Navigator) Activate(ctx context.Context, screen Screen) (Action, error) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.cancel != nil {
		n.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.mu.Unlock()

	defer cancel()

	a, err := n.decider.Decide(ctx, screen)

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		return Action{}, ErrStale
	}
	n.cancel = nil
	if err != nil {
		return Action{}, err
	}

	n.current = a.Target
	n.last = a
	return a, nil
}

// Current is the screen of the latest applied action, "" before the first.
func (n *Navigator) Current() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Last returns the latest applied action.
func (n *Navigator) Last() Action {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// generation is the number of activations requested so far.
func (n *Navigator) generation() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen
}
