package nodebuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/keystore"
	modstate "github.com/mojo-labs/mojo/nodebuilder/state"
	"github.com/mojo-labs/mojo/state"
)

var (
	log   = logging.Logger("node")
	fxLog = logging.Logger("fx")
)

// Node keeps references to the components needed to manage world state on
// one network: the ledger client, the state router and the payer keystore.
type Node struct {
	fx.In `ignore-unexported:"true"`

	Config    *Config
	Network   core.Network
	Endpoints core.Endpoints
	Keystore  keystore.Keystore

	Client *core.Client
	Router *state.Router

	start, stop lifecycleFunc
}

// New assembles a new Node over Store 'store'.
func New(store Store, options ...fx.Option) (*Node, error) {
	cfg, err := store.Config()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(store, cfg, options...)
}

// NewWithConfig assembles a new Node over Store 'store' and a custom config.
func NewWithConfig(store Store, cfg *Config, options ...fx.Option) (*Node, error) {
	opts := append([]fx.Option{ConstructModule(cfg, store)}, options...)
	return newNode(opts...)
}

// Start starts the ledger client and every other component with a start hook.
func (n *Node) Start(ctx context.Context) error {
	if err := runPhase(ctx, "start", n.start); err != nil {
		return err
	}
	log.Infow("started node", "network", n.Network, "program", n.Router.Program())
	return nil
}

// Stop closes the Node's connections. Canceling ctx aborts graceful shutdown.
func (n *Node) Stop(ctx context.Context) error {
	if err := runPhase(ctx, "stop", n.stop); err != nil {
		return err
	}
	log.Debug("stopped node")
	return nil
}

// runPhase runs one fx lifecycle phase bounded by DefaultLifecycleTimeout.
func runPhase(ctx context.Context, phase string, fn lifecycleFunc) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultLifecycleTimeout)
	defer cancel()

	err := fn(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("node: %s exceeded %s: %w", phase, DefaultLifecycleTimeout, err)
	default:
		log.Debugw("lifecycle phase failed", "phase", phase, "err", err)
		return fmt.Errorf("node: %s: %w", phase, err)
	}
}

// Payer loads the configured payer key from the Node's keystore.
func (n *Node) Payer() (*core.Keypair, error) {
	return modstate.Payer(n.Keystore, n.Config.State.Key())
}

// newNode creates a new Node from given DI options.
func newNode(opts ...fx.Option) (*Node, error) {
	node := new(Node)
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: fxLog.Desugar()}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
		fx.Populate(node),
		fx.Options(opts...),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	node.start, node.stop = app.Start, app.Stop
	return node, nil
}

type lifecycleFunc func(context.Context) error

// DefaultLifecycleTimeout bounds Start and Stop.
var DefaultLifecycleTimeout = 20 * time.Second
