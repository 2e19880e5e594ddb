package state

import (
	"context"
	"errors"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/instructions"
)

var (
	// ErrSubmission wraps every failure to submit or confirm a transaction.
	// Remote rejections, including writes against undelegated or foreign
	// accounts, are reported through it.
	ErrSubmission = errors.New("state: submission failed")
	// ErrFetch wraps failures to fetch account bytes from an endpoint.
	ErrFetch = errors.New("state: fetching account failed")
	// ErrAccountNotFound is returned when the account does not exist on the queried layer.
	ErrAccountNotFound = errors.New("state: account not found")
	// ErrAccountTooSmall is returned when an account holds fewer bytes than the decoded type.
	ErrAccountTooSmall = errors.New("state: account too small")
	// ErrNotDelegated is returned for writes against an account known not to be delegated.
	ErrNotDelegated = errors.New("state: account is not delegated")
	// ErrAlreadyDelegated is returned for delegating an account known to be delegated.
	ErrAlreadyDelegated = errors.New("state: account is already delegated")
	// ErrNotCreated is returned for delegating an account known not to exist.
	ErrNotCreated = errors.New("state: account is not created")
	// ErrWorldMismatch is returned when a stored World record does not match its derivation.
	ErrWorldMismatch = errors.New("state: world record does not match its derivation")
)

//go:generate mockgen -destination=mocks/ledger.go -package=mocks . Submitter,AccountFetcher

// Submitter signs and submits one transaction made of the given
// instructions to endpoint, blocking until it is confirmed.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, payer core.Signer, ixs []instructions.Instruction) (core.Signature, error)
}

// AccountFetcher fetches the raw bytes of an account from endpoint. It
// reports missing accounts with core.ErrAccountNotFound.
type AccountFetcher interface {
	AccountBytes(ctx context.Context, endpoint string, addr account.Address) ([]byte, error)
}

// Ledger is both collaborators of the Router in one.
type Ledger interface {
	Submitter
	AccountFetcher
}
