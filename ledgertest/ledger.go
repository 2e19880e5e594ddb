// Package ledgertest provides an in-memory two-layer ledger for tests. It
// executes create, delegate and write instructions the way the world program
// does, without networking or fees.
package ledgertest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/instructions"
)

const (
	BaseEndpoint      = "mem://base"
	EphemeralEndpoint = "mem://ephemeral"
)

// ErrRejected is returned for transactions the in-memory program refuses.
var ErrRejected = errors.New("ledgertest: transaction rejected")

// Endpoints returns an endpoint table serving Localnet from the in-memory ledger.
func Endpoints() core.Endpoints {
	return core.Endpoints{
		core.Localnet: {
			BaseLayer: BaseEndpoint,
			Ephemeral: EphemeralEndpoint,
		},
	}
}

// Submission is a transaction accepted by the Ledger.
type Submission struct {
	Endpoint  string
	Payer     account.Address
	Kinds     []instructions.Kind
	Signature core.Signature
}

type entry struct {
	owner     account.Address
	fp        account.Fingerprint
	data      []byte
	delegated bool
}

func (e *entry) clone() *entry {
	c := *e
	c.data = bytes.Clone(e.data)
	return &c
}

// Ledger is an in-memory base layer and ephemeral layer. It implements the
// Submitter and AccountFetcher collaborators of state.Router and is safe for
// concurrent use.
type Ledger struct {
	program    account.Address
	delegation account.Address
	trailer    []byte

	lk          sync.Mutex
	layers      map[core.Layer]map[account.Address]*entry
	failNext    map[string][]error
	submissions []Submission
}

type Option func(*Ledger)

// WithProgram sets the world program the Ledger executes instructions for.
func WithProgram(program account.Address) Option {
	return func(l *Ledger) {
		l.program = program
	}
}

// WithTrailer appends trailer to every account image on the ephemeral layer,
// as delegation metadata does on real deployments.
func WithTrailer(trailer []byte) Option {
	return func(l *Ledger) {
		l.trailer = bytes.Clone(trailer)
	}
}

// New returns an empty Ledger executing instructions addressed to the given
// program by default.
func New(program account.Address, opts ...Option) *Ledger {
	l := &Ledger{
		program:    program,
		delegation: instructions.DelegationProgram,
		layers: map[core.Layer]map[account.Address]*entry{
			core.BaseLayer: make(map[account.Address]*entry),
			core.Ephemeral: make(map[account.Address]*entry),
		},
		failNext: make(map[string][]error),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit executes ixs atomically against the layer served by endpoint.
func (l *Ledger) Submit(
	ctx context.Context,
	endpoint string,
	payer core.Signer,
	ixs []instructions.Instruction,
) (core.Signature, error) {
	if err := ctx.Err(); err != nil {
		return core.Signature{}, err
	}
	if len(ixs) == 0 {
		return core.Signature{}, core.ErrNoInstructions
	}
	layer, err := layerOf(endpoint)
	if err != nil {
		return core.Signature{}, err
	}

	l.lk.Lock()
	defer l.lk.Unlock()

	if err := l.popFailure(endpoint); err != nil {
		return core.Signature{}, err
	}

	staged := map[core.Layer]map[account.Address]*entry{
		core.BaseLayer: make(map[account.Address]*entry),
		core.Ephemeral: make(map[account.Address]*entry),
	}
	kinds := make([]instructions.Kind, 0, len(ixs))
	msg := new(bytes.Buffer)
	for i, ix := range ixs {
		kind, err := l.execute(staged, layer, payer.PublicKey(), ix)
		if err != nil {
			return core.Signature{}, fmt.Errorf("instruction %d: %w", i, err)
		}
		kinds = append(kinds, kind)
		msg.Write(ix.Data)
	}

	raw, err := payer.Sign(msg.Bytes())
	if err != nil {
		return core.Signature{}, err
	}
	var sig core.Signature
	copy(sig[:], raw)

	for layer, entries := range staged {
		for addr, e := range entries {
			l.layers[layer][addr] = e
		}
	}
	l.submissions = append(l.submissions, Submission{
		Endpoint:  endpoint,
		Payer:     payer.PublicKey(),
		Kinds:     kinds,
		Signature: sig,
	})
	return sig, nil
}

// AccountBytes returns the account image of addr on the layer served by endpoint.
func (l *Ledger) AccountBytes(ctx context.Context, endpoint string, addr account.Address) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layer, err := layerOf(endpoint)
	if err != nil {
		return nil, err
	}

	l.lk.Lock()
	defer l.lk.Unlock()
	if err := l.popFailure(endpoint); err != nil {
		return nil, err
	}

	e, ok := l.layers[layer][addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAccountNotFound, addr)
	}
	return bytes.Clone(e.data), nil
}

// execute applies ix to staged, reading through to the committed state.
func (l *Ledger) execute(
	staged map[core.Layer]map[account.Address]*entry,
	layer core.Layer,
	payer account.Address,
	ix instructions.Instruction,
) (instructions.Kind, error) {
	if ix.ProgramID != l.program {
		return 0, fmt.Errorf("%w: unknown program %s", ErrRejected, ix.ProgramID)
	}
	kind, fp, data, err := instructions.Parse(ix)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if len(ix.Accounts) < 2 || ix.Accounts[0].Address != payer || !ix.Accounts[0].IsSigner {
		return 0, fmt.Errorf("%w: payer must sign", ErrRejected)
	}
	addr := ix.Accounts[1].Address

	lookup := func(layer core.Layer) (*entry, bool) {
		if e, ok := staged[layer][addr]; ok {
			return e, true
		}
		e, ok := l.layers[layer][addr]
		if !ok {
			return nil, false
		}
		return e.clone(), true
	}

	switch kind {
	case instructions.KindCreate:
		if layer != core.BaseLayer {
			return 0, fmt.Errorf("%w: create on %s layer", ErrRejected, layer)
		}
		if e, ok := lookup(core.BaseLayer); ok && e.delegated {
			return 0, fmt.Errorf("%w: %s is delegated", ErrRejected, addr)
		}
		staged[core.BaseLayer][addr] = &entry{owner: payer, fp: fp, data: bytes.Clone(data)}

	case instructions.KindDelegate:
		if layer != core.BaseLayer {
			return 0, fmt.Errorf("%w: delegate on %s layer", ErrRejected, layer)
		}
		e, ok := lookup(core.BaseLayer)
		switch {
		case !ok:
			return 0, fmt.Errorf("%w: %s does not exist", ErrRejected, addr)
		case e.delegated:
			return 0, fmt.Errorf("%w: %s is already delegated", ErrRejected, addr)
		case e.owner != payer || e.fp != fp:
			return 0, fmt.Errorf("%w: seed mismatch for %s", ErrRejected, addr)
		}
		if err := l.checkDelegation(ix, addr); err != nil {
			return 0, err
		}
		e.delegated = true
		staged[core.BaseLayer][addr] = e
		staged[core.Ephemeral][addr] = &entry{
			owner:     e.owner,
			fp:        e.fp,
			data:      append(bytes.Clone(e.data), l.trailer...),
			delegated: true,
		}

	case instructions.KindWrite:
		if layer != core.Ephemeral {
			return 0, fmt.Errorf("%w: write on %s layer", ErrRejected, layer)
		}
		e, ok := lookup(core.Ephemeral)
		switch {
		case !ok:
			return 0, fmt.Errorf("%w: %s is not delegated", ErrRejected, addr)
		case e.owner != payer || e.fp != fp:
			return 0, fmt.Errorf("%w: seed mismatch for %s", ErrRejected, addr)
		}
		e.data = append(bytes.Clone(data), l.trailer...)
		staged[core.Ephemeral][addr] = e
	}
	return kind, nil
}

func (l *Ledger) checkDelegation(ix instructions.Instruction, addr account.Address) error {
	accs, err := instructions.DelegationAccounts(l.program, l.delegation, addr)
	if err != nil {
		return err
	}
	if len(ix.Accounts) != 8 ||
		ix.Accounts[3].Address != accs.Buffer ||
		ix.Accounts[4].Address != accs.Record ||
		ix.Accounts[5].Address != accs.Metadata ||
		ix.Accounts[6].Address != l.delegation {
		return fmt.Errorf("%w: bad delegation accounts for %s", ErrRejected, addr)
	}
	return nil
}

// FailNext makes the next request to endpoint fail with err. Calls queue, one
// entry per request; a nil err lets its request through.
func (l *Ledger) FailNext(endpoint string, err error) {
	l.lk.Lock()
	defer l.lk.Unlock()
	l.failNext[endpoint] = append(l.failNext[endpoint], err)
}

func (l *Ledger) popFailure(endpoint string) error {
	errs := l.failNext[endpoint]
	if len(errs) == 0 {
		return nil
	}
	l.failNext[endpoint] = errs[1:]
	return errs[0]
}

// Data returns a copy of the account image of addr on layer.
func (l *Ledger) Data(layer core.Layer, addr account.Address) ([]byte, bool) {
	l.lk.Lock()
	defer l.lk.Unlock()
	e, ok := l.layers[layer][addr]
	if !ok {
		return nil, false
	}
	return bytes.Clone(e.data), true
}

// SetData replaces the image of an existing account on layer.
func (l *Ledger) SetData(layer core.Layer, addr account.Address, data []byte) bool {
	l.lk.Lock()
	defer l.lk.Unlock()
	e, ok := l.layers[layer][addr]
	if !ok {
		return false
	}
	e.data = bytes.Clone(data)
	return true
}

// Truncate cuts the image of addr on layer to n bytes.
func (l *Ledger) Truncate(layer core.Layer, addr account.Address, n int) bool {
	l.lk.Lock()
	defer l.lk.Unlock()
	e, ok := l.layers[layer][addr]
	if !ok || n > len(e.data) {
		return false
	}
	e.data = e.data[:n]
	return true
}

// Submissions returns every accepted transaction in order.
func (l *Ledger) Submissions() []Submission {
	l.lk.Lock()
	defer l.lk.Unlock()
	return append([]Submission(nil), l.submissions...)
}

func layerOf(endpoint string) (core.Layer, error) {
	switch endpoint {
	case BaseEndpoint:
		return core.BaseLayer, nil
	case EphemeralEndpoint:
		return core.Ephemeral, nil
	default:
		return 0, fmt.Errorf("%w: %s", core.ErrUnknownEndpoint, endpoint)
	}
}
