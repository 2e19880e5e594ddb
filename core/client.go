package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/filecoin-project/go-jsonrpc"
	solana "github.com/gagliardetto/solana-go"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/time/rate"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/instructions"
)

var log = logging.Logger("core")

const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

var (
	// ErrRPC wraps failures reported by, or while talking to, an endpoint.
	ErrRPC = errors.New("core: rpc failure")
	// ErrTxFailed is returned when a transaction landed but its execution failed.
	ErrTxFailed = errors.New("core: transaction failed")
	// ErrConfirmTimeout is returned when a transaction was not confirmed in time.
	ErrConfirmTimeout = errors.New("core: transaction confirmation timed out")
	// ErrAccountNotFound is returned when the requested account does not exist.
	ErrAccountNotFound = errors.New("core: account not found")
	// ErrStopped is returned for requests made after Stop.
	ErrStopped = errors.New("core: client is stopped")
)

// conn is a JSON-RPC connection to a single endpoint.
type conn struct {
	api     ledgerAPI
	closer  jsonrpc.ClientCloser
	limiter *rate.Limiter
}

// Client signs and submits transactions and fetches raw account bytes over
// the ledger JSON-RPC interface. Connections are opened lazily, one per
// endpoint, and closed on Stop.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc

	connsLk sync.Mutex
	conns   map[string]*conn

	clock          clock.Clock
	confirmTimeout time.Duration
	pollInterval   time.Duration
	rateLimit      rate.Limit
	rateBurst      int

	metrics *metrics
}

// NewClient constructs a Client. It must be started before use.
func NewClient(opts ...Option) *Client {
	c := &Client{
		conns:          make(map[string]*conn),
		clock:          clock.New(),
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
		rateLimit:      rate.Inf,
		rateBurst:      1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Start(ctx context.Context) error {
	if c.ctx != nil {
		return fmt.Errorf("core: client already started")
	}
	c.ctx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))
	return nil
}

func (c *Client) Stop(context.Context) error {
	if c.cancel == nil {
		return fmt.Errorf("core: client is not started")
	}
	c.cancel()

	c.connsLk.Lock()
	defer c.connsLk.Unlock()
	for endpoint, cn := range c.conns {
		cn.closer()
		delete(c.conns, endpoint)
	}
	return nil
}

// Submit compiles ixs into one transaction paid and signed by payer, sends
// it to endpoint and blocks until the transaction is confirmed, fails, or the
// confirmation timeout passes.
func (c *Client) Submit(
	ctx context.Context,
	endpoint string,
	payer Signer,
	ixs []instructions.Instruction,
) (Signature, error) {
	return c.SubmitSigned(ctx, endpoint, ixs, payer)
}

// SubmitSigned is Submit for instructions that need more than one signer.
// The first signer pays. Transactions that cannot be encoded, or that miss a
// required signer, are rejected before anything is sent.
func (c *Client) SubmitSigned(
	ctx context.Context,
	endpoint string,
	ixs []instructions.Instruction,
	signers ...Signer,
) (Signature, error) {
	if len(signers) == 0 {
		return Signature{}, fmt.Errorf("%w: no fee payer", ErrMissingSigner)
	}
	tx, err := compileTransaction(signers[0].PublicKey(), ixs)
	if err != nil {
		return Signature{}, err
	}
	if err = checkSigners(tx.Message.Signers(), signers); err != nil {
		return Signature{}, err
	}

	cn, err := c.conn(endpoint)
	if err != nil {
		return Signature{}, err
	}
	blockhash, err := c.latestBlockhash(ctx, endpoint, cn)
	if err != nil {
		return Signature{}, err
	}
	wire, sig, err := signTransaction(tx, blockhash, signers...)
	if err != nil {
		return Signature{}, err
	}

	if err = cn.wait(ctx); err != nil {
		return Signature{}, err
	}
	remote, err := cn.api.SendTransaction(ctx, base64.StdEncoding.EncodeToString(wire), sendConfig{
		Encoding:            encodingBase64,
		PreflightCommitment: commitmentConfirmed,
	})
	c.metrics.observeRequest(ctx, "sendTransaction", err)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: sending transaction to %s: %w", ErrRPC, endpoint, err)
	}
	if remote != sig.String() {
		log.Warnw("endpoint returned unexpected signature", "endpoint", endpoint, "expected", sig, "got", remote)
	}

	log.Debugw("transaction sent", "endpoint", endpoint, "signature", sig, "instructions", len(ixs), "bytes", len(wire))
	start := c.clock.Now()
	err = c.confirm(ctx, endpoint, cn, sig)
	c.metrics.observeConfirm(ctx, c.clock.Now().Sub(start), err)
	if err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// checkSigners reports the first required key none of signers holds.
func checkSigners(required solana.PublicKeySlice, signers []Signer) error {
	held := make(map[solana.PublicKey]struct{}, len(signers))
	for _, s := range signers {
		held[solana.PublicKey(s.PublicKey())] = struct{}{}
	}
	for _, key := range required {
		if _, ok := held[key]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingSigner, key)
		}
	}
	return nil
}

// AccountBytes returns the raw data of addr as seen by endpoint.
func (c *Client) AccountBytes(ctx context.Context, endpoint string, addr account.Address) ([]byte, error) {
	cn, err := c.conn(endpoint)
	if err != nil {
		return nil, err
	}
	if err = cn.wait(ctx); err != nil {
		return nil, err
	}

	res, err := cn.api.GetAccountInfo(ctx, addr.String(), accountInfoConfig{
		Encoding:   encodingBase64,
		Commitment: commitmentConfirmed,
	})
	c.metrics.observeRequest(ctx, "getAccountInfo", err)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching account %s from %s: %w", ErrRPC, addr, endpoint, err)
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return res.Value.bytes()
}

func (c *Client) latestBlockhash(ctx context.Context, endpoint string, cn *conn) (Blockhash, error) {
	if err := cn.wait(ctx); err != nil {
		return Blockhash{}, err
	}

	res, err := cn.api.GetLatestBlockhash(ctx, commitmentConfig{Commitment: commitmentConfirmed})
	c.metrics.observeRequest(ctx, "getLatestBlockhash", err)
	if err != nil {
		return Blockhash{}, fmt.Errorf("%w: fetching blockhash from %s: %w", ErrRPC, endpoint, err)
	}
	if res == nil {
		return Blockhash{}, fmt.Errorf("%w: empty blockhash response from %s", ErrRPC, endpoint)
	}

	bh, err := solana.HashFromBase58(res.Value.Blockhash)
	if err != nil {
		return Blockhash{}, fmt.Errorf("%w: malformed blockhash %q from %s: %w", ErrRPC, res.Value.Blockhash, endpoint, err)
	}
	return Blockhash(bh), nil
}

// confirm polls the status of sig until it is confirmed or failed.
func (c *Client) confirm(ctx context.Context, endpoint string, cn *conn, sig Signature) error {
	ctx, cancel := c.clock.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := c.clock.Ticker(c.pollInterval)
	defer ticker.Stop()

	for {
		done, err := c.status(ctx, endpoint, cn, sig)
		if done || err != nil {
			return err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %s", ErrConfirmTimeout, sig, c.confirmTimeout)
			}
			return ctx.Err()
		}
	}
}

func (c *Client) status(ctx context.Context, endpoint string, cn *conn, sig Signature) (bool, error) {
	if err := cn.wait(ctx); err != nil {
		// the deadline surfaces through the select in confirm
		return false, nil
	}

	res, err := cn.api.GetSignatureStatuses(ctx, []string{sig.String()}, statusConfig{})
	c.metrics.observeRequest(ctx, "getSignatureStatuses", err)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("%w: polling status of %s on %s: %w", ErrRPC, sig, endpoint, err)
	}
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return false, nil
	}

	st := res.Value[0]
	if st.Err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrTxFailed, sig, st.Err)
	}
	return st.confirmed(), nil
}

// conn returns the connection to endpoint, dialing it on first use.
func (c *Client) conn(endpoint string) (*conn, error) {
	c.connsLk.Lock()
	defer c.connsLk.Unlock()

	if c.ctx == nil {
		return nil, fmt.Errorf("core: client is not started")
	}
	if c.ctx.Err() != nil {
		return nil, ErrStopped
	}
	if cn, ok := c.conns[endpoint]; ok {
		return cn, nil
	}

	cn := &conn{limiter: rate.NewLimiter(c.rateLimit, c.rateBurst)}
	closer, err := jsonrpc.NewMergeClient(
		c.ctx,
		endpoint,
		"",
		[]interface{}{&cn.api},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %w", ErrRPC, endpoint, err)
	}
	cn.closer = closer
	c.conns[endpoint] = cn

	log.Debugw("connected to endpoint", "endpoint", endpoint)
	return cn, nil
}

func (cn *conn) wait(ctx context.Context) error {
	if err := cn.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrRPC, err)
	}
	return nil
}
