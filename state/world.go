package state

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/instructions"
	"github.com/mojo-labs/mojo/libs/utils"
)

// World is the identity of a named world. State accounts of the same owner
// live alongside it under the same program.
type World struct {
	Creator account.Address     `json:"creator"`
	Seed    account.Fingerprint `json:"seed"`
	Address account.Address     `json:"address"`
	Network core.Network        `json:"network"`
}

// worldRecord is the on-ledger image of a World.
type worldRecord struct {
	Creator account.Address
	Seed    account.Fingerprint
	Address account.Address
}

var worldCodec = mustCodec[worldRecord]()

func (w World) record() worldRecord {
	return worldRecord{
		Creator: w.Creator,
		Seed:    w.Seed,
		Address: w.Address,
	}
}

// CreateWorld creates the World named name owned by payer. The World record
// lives on the base layer and is never delegated.
func (r *Router) CreateWorld(ctx context.Context, payer core.Signer, name string) (_ World, err error) {
	ctx, span := tracer.Start(ctx, "state/create-world", trace.WithAttributes(
		attribute.String("name", name),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(payer.PublicKey(), name)
	if err != nil {
		return World{}, err
	}
	w := World{
		Creator: payer.PublicKey(),
		Seed:    d.Fingerprint,
		Address: d.Address,
		Network: r.network,
	}

	data, err := worldCodec.Encode(w.record())
	if err != nil {
		return World{}, err
	}
	create, err := instructions.Create(r.program, payer.PublicKey(), d.Address, d.Fingerprint, data)
	if err != nil {
		return World{}, err
	}
	if _, err = r.submit(ctx, opCreate, core.BaseLayer, payer, d.Address, create); err != nil {
		return World{}, err
	}
	r.lifecycle.created(d.Address)

	log.Infow("world created", "name", name, "address", d.Address, "network", r.network)
	return w, nil
}

// LoadWorld reads the World named name owned by owner from the base layer and
// checks that it matches its derivation.
func (r *Router) LoadWorld(ctx context.Context, owner account.Address, name string) (_ World, err error) {
	ctx, span := tracer.Start(ctx, "state/load-world", trace.WithAttributes(
		attribute.String("name", name),
	))
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()

	d, err := r.deriver.Derive(owner, name)
	if err != nil {
		return World{}, err
	}
	data, err := r.fetch(ctx, core.BaseLayer, d.Address)
	if err != nil {
		return World{}, err
	}
	if len(data) < worldCodec.Size() {
		return World{}, fmt.Errorf("%w: world %s holds %d bytes", ErrAccountTooSmall, d.Address, len(data))
	}
	rec, err := worldCodec.Decode(data)
	if err != nil {
		return World{}, err
	}

	if rec.Creator != owner || rec.Seed != d.Fingerprint || rec.Address != d.Address {
		return World{}, fmt.Errorf("%w: %s", ErrWorldMismatch, d.Address)
	}
	return World{
		Creator: rec.Creator,
		Seed:    rec.Seed,
		Address: rec.Address,
		Network: r.network,
	}, nil
}
