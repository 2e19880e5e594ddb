package core

import (
	"errors"
	"fmt"
	"math"

	solana "github.com/gagliardetto/solana-go"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/instructions"
)

// maxAccountKeys is bounded by the one-byte account indices of compiled instructions.
const maxAccountKeys = math.MaxUint8 + 1

// MaxTransactionSize is the largest serialized transaction an endpoint accepts.
const MaxTransactionSize = instructions.PacketSize

var (
	ErrNoInstructions      = errors.New("core: no instructions to submit")
	ErrTooManyAccounts     = errors.New("core: too many accounts in transaction")
	ErrMissingSigner       = errors.New("core: transaction requires a signer that was not provided")
	ErrTransactionTooLarge = errors.New("core: transaction exceeds packet size")
)

// Blockhash is the recent block hash a transaction is anchored to.
type Blockhash [32]byte

// compileTransaction builds the legacy transaction paid by payer. Accounts
// are ordered fee payer first, then writable signers, readonly signers,
// writable and readonly non-signers. The blockhash is left zero and the
// size check counts every required signature.
func compileTransaction(payer account.Address, ixs []instructions.Instruction) (*solana.Transaction, error) {
	if len(ixs) == 0 {
		return nil, ErrNoInstructions
	}

	converted := make([]solana.Instruction, len(ixs))
	for i, ix := range ixs {
		metas := make(solana.AccountMetaSlice, len(ix.Accounts))
		for j, acc := range ix.Accounts {
			metas[j] = &solana.AccountMeta{
				PublicKey:  solana.PublicKey(acc.Address),
				IsSigner:   acc.IsSigner,
				IsWritable: acc.IsWritable,
			}
		}
		converted[i] = solana.NewInstruction(solana.PublicKey(ix.ProgramID), metas, ix.Data)
	}

	tx, err := solana.NewTransaction(converted, solana.Hash{}, solana.TransactionPayer(solana.PublicKey(payer)))
	if err != nil {
		return nil, fmt.Errorf("core: compiling transaction: %w", err)
	}
	if n := len(tx.Message.AccountKeys); n > maxAccountKeys {
		return nil, fmt.Errorf("%w: %d", ErrTooManyAccounts, n)
	}

	wire, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("core: encoding transaction: %w", err)
	}
	if len(wire) > MaxTransactionSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrTransactionTooLarge, len(wire), MaxTransactionSize)
	}
	return tx, nil
}

// signTransaction anchors tx to blockhash, signs it with the provided
// signers and returns its wire form together with its identifying signature.
func signTransaction(tx *solana.Transaction, blockhash Blockhash, signers ...Signer) ([]byte, Signature, error) {
	byKey := make(map[solana.PublicKey]Signer, len(signers))
	for _, s := range signers {
		byKey[solana.PublicKey(s.PublicKey())] = s
	}

	tx.Message.RecentBlockhash = solana.Hash(blockhash)
	payload, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, Signature{}, fmt.Errorf("core: encoding message: %w", err)
	}

	required := tx.Message.Signers()
	sigs := make([]solana.Signature, 0, len(required))
	for _, key := range required {
		s, ok := byKey[key]
		if !ok {
			return nil, Signature{}, fmt.Errorf("%w: %s", ErrMissingSigner, key)
		}
		sig, err := s.Sign(payload)
		if err != nil {
			return nil, Signature{}, fmt.Errorf("core: signing for %s: %w", key, err)
		}
		if len(sig) != SignatureLength {
			return nil, Signature{}, fmt.Errorf("%w: signer %s returned %d bytes", ErrInvalidSignature, key, len(sig))
		}
		sigs = append(sigs, solana.SignatureFromBytes(sig))
	}
	tx.Signatures = sigs

	wire, err := tx.MarshalBinary()
	if err != nil {
		return nil, Signature{}, fmt.Errorf("core: encoding transaction: %w", err)
	}
	return wire, Signature(sigs[0]), nil
}
