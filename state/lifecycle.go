package state

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mojo-labs/mojo/account"
)

// DefaultLifecycleCapacity is the number of accounts a Router tracks before
// evicting the least recently used.
const DefaultLifecycleCapacity = 4096

// Lifecycle is the state of a named account as observed by a Router.
type Lifecycle uint8

const (
	// Unknown means the Router has not observed the account. It may exist
	// and be delegated by another process.
	Unknown Lifecycle = iota
	// Uninitialized means the account has not been created.
	Uninitialized
	// Created means a create was confirmed on the base layer.
	Created
	// Delegated means a delegation was confirmed on the base layer. A
	// delegated account accepts writes on the ephemeral layer.
	Delegated
)

func (l Lifecycle) String() string {
	switch l {
	case Unknown:
		return "unknown"
	case Uninitialized:
		return "uninitialized"
	case Created:
		return "created"
	case Delegated:
		return "delegated"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(l))
	}
}

// tracker records the lifecycle of the accounts a Router touched and
// guards transitions. With strict set, unobserved accounts are treated as
// Uninitialized instead of Unknown. Evicted accounts fall back to the
// unobserved state until the Router sees them again.
type tracker struct {
	lk     sync.Mutex
	states *lru.Cache[account.Address, Lifecycle]
	strict bool
}

func newTracker(capacity int, strict bool) (*tracker, error) {
	states, err := lru.New[account.Address, Lifecycle](capacity)
	if err != nil {
		return nil, fmt.Errorf("state: lifecycle tracker: %w", err)
	}
	return &tracker{
		states: states,
		strict: strict,
	}, nil
}

func (t *tracker) get(addr account.Address) Lifecycle {
	t.lk.Lock()
	defer t.lk.Unlock()
	return t.getLocked(addr)
}

func (t *tracker) getLocked(addr account.Address) Lifecycle {
	l, ok := t.states.Get(addr)
	if !ok && t.strict {
		return Uninitialized
	}
	return l
}

// checkDelegate guards Created -> Delegated.
func (t *tracker) checkDelegate(addr account.Address) error {
	switch l := t.get(addr); l {
	case Uninitialized:
		return fmt.Errorf("%w: %s", ErrNotCreated, addr)
	case Delegated:
		return fmt.Errorf("%w: %s", ErrAlreadyDelegated, addr)
	default:
		return nil
	}
}

// checkWrite guards the Delegated self-loop.
func (t *tracker) checkWrite(addr account.Address) error {
	switch l := t.get(addr); l {
	case Uninitialized, Created:
		return fmt.Errorf("%w: %s is %s", ErrNotDelegated, addr, l)
	default:
		return nil
	}
}

// created records a confirmed create. Re-creating a known account resets it to Created.
func (t *tracker) created(addr account.Address) {
	t.set(addr, Created)
}

// delegated records a confirmed delegation.
func (t *tracker) delegated(addr account.Address) {
	t.set(addr, Delegated)
}

// observedDelegated records that the account was seen on the ephemeral layer.
// It only upgrades accounts the tracker knows nothing about.
func (t *tracker) observedDelegated(addr account.Address) {
	t.lk.Lock()
	defer t.lk.Unlock()
	if !t.states.Contains(addr) {
		t.states.Add(addr, Delegated)
	}
}

func (t *tracker) set(addr account.Address, l Lifecycle) {
	t.lk.Lock()
	defer t.lk.Unlock()
	t.states.Add(addr, l)
}
