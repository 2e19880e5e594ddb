package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/instructions"
	"github.com/mojo-labs/mojo/libs/utils"
)

var (
	log    = logging.Logger("state")
	tracer = otel.Tracer("state")
)

// DefaultProgram is the world program of the public deployments.
var DefaultProgram = account.MustParseAddress("WoRLDxMojo111111111111111111111111111111111")

// Router sequences create, delegate, write and read operations across the
// base and ephemeral layers of one network. Every operation issues its
// requests in order and waits for each before the next; nothing is retried.
//
// Router is safe for concurrent use. Operations on distinct names are
// independent, while concurrent writes to one name race on the ledger.
type Router struct {
	network    core.Network
	endpoints  core.Endpoints
	submitter  Submitter
	fetcher    AccountFetcher
	program    account.Address
	delegation account.Address
	cacheSize  int
	tracked    int
	strict     bool

	deriver   *account.Deriver
	lifecycle *tracker
	metrics   *metrics
}

// NewRouter constructs a Router for network. Endpoints are resolved from
// the given table on every call.
func NewRouter(
	network core.Network,
	endpoints core.Endpoints,
	submitter Submitter,
	fetcher AccountFetcher,
	opts ...Option,
) (*Router, error) {
	if submitter == nil || fetcher == nil {
		return nil, errors.New("state: submitter and fetcher are required")
	}
	network, err := network.Validate()
	if err != nil {
		return nil, err
	}
	for _, layer := range []core.Layer{core.BaseLayer, core.Ephemeral} {
		if _, err := endpoints.Endpoint(network, layer); err != nil {
			return nil, err
		}
	}

	r := &Router{
		network:    network,
		endpoints:  endpoints,
		submitter:  submitter,
		fetcher:    fetcher,
		program:    DefaultProgram,
		delegation: instructions.DelegationProgram,
		tracked:    DefaultLifecycleCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.deriver, err = account.NewDeriver(r.program, r.cacheSize)
	if err != nil {
		return nil, err
	}
	r.lifecycle, err = newTracker(r.tracked, r.strict)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Network returns the network the Router targets.
func (r *Router) Network() core.Network {
	return r.network
}

// Program returns the world program the Router derives addresses under.
func (r *Router) Program() account.Address {
	return r.program
}

// Derive returns the address and fingerprint of (owner, name).
func (r *Router) Derive(owner account.Address, name string) (account.Derived, error) {
	return r.deriver.Derive(owner, name)
}

// Lifecycle reports the lifecycle of (owner, name) as observed by this Router.
func (r *Router) Lifecycle(owner account.Address, name string) (Lifecycle, error) {
	d, err := r.deriver.Derive(owner, name)
	if err != nil {
		return Unknown, err
	}
	return r.lifecycle.get(d.Address), nil
}

// CreateStateBytes creates the account of (payer, name) holding data on the
// base layer, then delegates it to the ephemeral layer. Delegation is only
// attempted once the create is confirmed. If it fails the account stays
// Created and the caller must delegate it again with DelegateStateBytes.
func (r *Router) CreateStateBytes(
	ctx context.Context,
	payer core.Signer,
	name string,
	data []byte,
) (_ account.Address, err error) {
	ctx, span := tracer.Start(ctx, "state/create", trace.WithAttributes(
		attribute.String("name", name),
		attribute.Int("size", len(data)),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(payer.PublicKey(), name)
	if err != nil {
		return account.Address{}, err
	}
	create, err := instructions.Create(r.program, payer.PublicKey(), d.Address, d.Fingerprint, data)
	if err != nil {
		return account.Address{}, err
	}
	delegate, err := instructions.Delegate(r.program, r.delegation, payer.PublicKey(), d.Address, d.Fingerprint, data)
	if err != nil {
		return account.Address{}, err
	}

	if _, err = r.submit(ctx, opCreate, core.BaseLayer, payer, d.Address, create); err != nil {
		return account.Address{}, err
	}
	r.lifecycle.created(d.Address)
	span.AddEvent("created")

	if _, err = r.submit(ctx, opDelegate, core.BaseLayer, payer, d.Address, delegate); err != nil {
		log.Warnw("account created but not delegated",
			"name", name, "address", d.Address, "err", err)
		return account.Address{}, err
	}
	r.lifecycle.delegated(d.Address)

	log.Infow("state created", "name", name, "address", d.Address, "size", len(data))
	return d.Address, nil
}

// DelegateStateBytes delegates an account of (payer, name) that was created
// but whose delegation failed.
func (r *Router) DelegateStateBytes(
	ctx context.Context,
	payer core.Signer,
	name string,
	data []byte,
) (_ core.Signature, err error) {
	ctx, span := tracer.Start(ctx, "state/delegate", trace.WithAttributes(
		attribute.String("name", name),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(payer.PublicKey(), name)
	if err != nil {
		return core.Signature{}, err
	}
	if err = r.lifecycle.checkDelegate(d.Address); err != nil {
		return core.Signature{}, err
	}
	delegate, err := instructions.Delegate(r.program, r.delegation, payer.PublicKey(), d.Address, d.Fingerprint, data)
	if err != nil {
		return core.Signature{}, err
	}

	sig, err := r.submit(ctx, opDelegate, core.BaseLayer, payer, d.Address, delegate)
	if err != nil {
		return core.Signature{}, err
	}
	r.lifecycle.delegated(d.Address)
	return sig, nil
}

// WriteStateBytes replaces the content of the (payer, name) account with
// data on the ephemeral layer.
func (r *Router) WriteStateBytes(
	ctx context.Context,
	payer core.Signer,
	name string,
	data []byte,
) (_ core.Signature, err error) {
	ctx, span := tracer.Start(ctx, "state/write", trace.WithAttributes(
		attribute.String("name", name),
		attribute.Int("size", len(data)),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(payer.PublicKey(), name)
	if err != nil {
		return core.Signature{}, err
	}
	if err = r.lifecycle.checkWrite(d.Address); err != nil {
		return core.Signature{}, err
	}
	write, err := instructions.Write(r.program, payer.PublicKey(), d.Address, d.Fingerprint, data)
	if err != nil {
		return core.Signature{}, err
	}

	sig, err := r.submit(ctx, opWrite, core.Ephemeral, payer, d.Address, write)
	if err != nil {
		return core.Signature{}, err
	}
	log.Debugw("state written", "name", name, "address", d.Address, "signature", sig)
	return sig, nil
}

// ReadStateBytes returns the first size bytes of the (owner, name) account
// as seen by the ephemeral layer. The base layer copy of a delegated account
// is stale until settlement and is never consulted.
func (r *Router) ReadStateBytes(
	ctx context.Context,
	owner account.Address,
	name string,
	size int,
) (_ []byte, err error) {
	ctx, span := tracer.Start(ctx, "state/read", trace.WithAttributes(
		attribute.String("name", name),
		attribute.Int("size", size),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(owner, name)
	if err != nil {
		return nil, err
	}

	data, err := r.fetch(ctx, core.Ephemeral, d.Address)
	if err != nil {
		return nil, err
	}
	r.lifecycle.observedDelegated(d.Address)

	if len(data) < size {
		return nil, fmt.Errorf("%w: %s holds %d bytes, need %d", ErrAccountTooSmall, d.Address, len(data), size)
	}
	return data[:size], nil
}

// submit sends ix on layer and wraps any failure in ErrSubmission.
func (r *Router) submit(
	ctx context.Context,
	op string,
	layer core.Layer,
	payer core.Signer,
	addr account.Address,
	ix instructions.Instruction,
) (core.Signature, error) {
	endpoint, err := r.endpoints.Endpoint(r.network, layer)
	if err != nil {
		return core.Signature{}, err
	}

	sig, err := r.submitter.Submit(ctx, endpoint, payer, []instructions.Instruction{ix})
	r.metrics.observeSubmission(ctx, op, layer, err)
	if err != nil {
		return core.Signature{}, fmt.Errorf("%w: %s %s on %s layer: %w", ErrSubmission, op, addr, layer, err)
	}
	return sig, nil
}

// fetch reads the raw account bytes of addr from layer.
func (r *Router) fetch(ctx context.Context, layer core.Layer, addr account.Address) ([]byte, error) {
	endpoint, err := r.endpoints.Endpoint(r.network, layer)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := r.fetcher.AccountBytes(ctx, endpoint, addr)
	r.metrics.observeRead(ctx, layer, time.Since(start), err)
	switch {
	case errors.Is(err, core.ErrAccountNotFound):
		return nil, fmt.Errorf("%w: %s on %s layer: %w", ErrAccountNotFound, addr, layer, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %s on %s layer: %w", ErrFetch, addr, layer, err)
	}
	return data, nil
}
