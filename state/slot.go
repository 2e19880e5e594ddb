package state

import (
	"context"
	"fmt"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/codec"
	"github.com/mojo-labs/mojo/core"
)

// Slot is a named state account of type T. The layout of T is validated once
// when the Slot is constructed. One Slot serves every owner of the name.
type Slot[T any] struct {
	router *Router
	codec  *codec.Codec[T]
	name   string
}

// NewSlot returns the Slot named name on r.
func NewSlot[T any](r *Router, name string) (*Slot[T], error) {
	if len(name) > account.MaxNameLength {
		return nil, fmt.Errorf("%w: %d bytes", account.ErrInvalidNameLength, len(name))
	}
	c, err := codec.New[T]()
	if err != nil {
		return nil, err
	}
	return &Slot[T]{router: r, codec: c, name: name}, nil
}

// Name returns the account name of the Slot.
func (s *Slot[T]) Name() string {
	return s.name
}

// Size returns the byte length of the stored image.
func (s *Slot[T]) Size() int {
	return s.codec.Size()
}

// Address returns the account address of the Slot owned by owner.
func (s *Slot[T]) Address(owner account.Address) (account.Address, error) {
	d, err := s.router.Derive(owner, s.name)
	if err != nil {
		return account.Address{}, err
	}
	return d.Address, nil
}

// Create creates the account of payer holding initial and delegates it.
func (s *Slot[T]) Create(ctx context.Context, payer core.Signer, initial T) (account.Address, error) {
	data, err := s.codec.Encode(initial)
	if err != nil {
		return account.Address{}, err
	}
	return s.router.CreateStateBytes(ctx, payer, s.name, data)
}

// Delegate delegates the account of payer after a failed delegation. value
// is the current content of the account.
func (s *Slot[T]) Delegate(ctx context.Context, payer core.Signer, value T) (core.Signature, error) {
	data, err := s.codec.Encode(value)
	if err != nil {
		return core.Signature{}, err
	}
	return s.router.DelegateStateBytes(ctx, payer, s.name, data)
}

// Write replaces the content of the account of payer with value.
func (s *Slot[T]) Write(ctx context.Context, payer core.Signer, value T) (core.Signature, error) {
	data, err := s.codec.Encode(value)
	if err != nil {
		return core.Signature{}, err
	}
	return s.router.WriteStateBytes(ctx, payer, s.name, data)
}

// Read returns the current value of the account owned by owner.
func (s *Slot[T]) Read(ctx context.Context, owner account.Address) (T, error) {
	data, err := s.router.ReadStateBytes(ctx, owner, s.name, s.codec.Size())
	if err != nil {
		var zero T
		return zero, err
	}
	return s.codec.Decode(data)
}

// CreateState creates and delegates the account of (payer, name) holding initial.
func CreateState[T any](ctx context.Context, r *Router, payer core.Signer, name string, initial T) (account.Address, error) {
	s, err := NewSlot[T](r, name)
	if err != nil {
		return account.Address{}, err
	}
	return s.Create(ctx, payer, initial)
}

// DelegateState delegates the account of (payer, name) left Created by a
// failed CreateState.
func DelegateState[T any](ctx context.Context, r *Router, payer core.Signer, name string, value T) (core.Signature, error) {
	s, err := NewSlot[T](r, name)
	if err != nil {
		return core.Signature{}, err
	}
	return s.Delegate(ctx, payer, value)
}

// WriteState replaces the content of the account of (payer, name) with value.
func WriteState[T any](ctx context.Context, r *Router, payer core.Signer, name string, value T) (core.Signature, error) {
	s, err := NewSlot[T](r, name)
	if err != nil {
		return core.Signature{}, err
	}
	return s.Write(ctx, payer, value)
}

// ReadState reads the account of (owner, name) from the ephemeral layer.
func ReadState[T any](ctx context.Context, r *Router, owner account.Address, name string) (T, error) {
	s, err := NewSlot[T](r, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Read(ctx, owner)
}

func mustCodec[T any]() *codec.Codec[T] {
	c, err := codec.New[T]()
	if err != nil {
		panic(err)
	}
	return c
}
