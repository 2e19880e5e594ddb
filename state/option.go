package state

import (
	"github.com/mojo-labs/mojo/account"
)

type Option func(r *Router)

// WithProgram sets the world program state accounts are derived under and
// instructions are addressed to.
func WithProgram(program account.Address) Option {
	return func(r *Router) {
		r.program = program
	}
}

// WithDelegationProgram overrides the delegation program used when
// delegating accounts to the ephemeral layer.
func WithDelegationProgram(program account.Address) Option {
	return func(r *Router) {
		r.delegation = program
	}
}

// WithDerivationCache caches up to size derived addresses. Zero disables
// the cache.
func WithDerivationCache(size int) Option {
	return func(r *Router) {
		r.cacheSize = size
	}
}

// WithStrictLifecycle makes the Router treat accounts it has not observed as
// Uninitialized, so that writes to them are rejected locally.
func WithStrictLifecycle() Option {
	return func(r *Router) {
		r.strict = true
	}
}

// WithLifecycleCapacity bounds the number of accounts whose lifecycle the
// Router remembers. The least recently used account is forgotten first.
func WithLifecycleCapacity(size int) Option {
	return func(r *Router) {
		r.tracked = size
	}
}
