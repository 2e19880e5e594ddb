package core

import (
	"crypto/ed25519"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/instructions"
)

var testProgram = account.MustParseAddress("WoRLDxMojo111111111111111111111111111111111")

func keys(addrs ...account.Address) solana.PublicKeySlice {
	out := make(solana.PublicKeySlice, len(addrs))
	for i, a := range addrs {
		out[i] = solana.PublicKey(a)
	}
	return out
}

func TestCompileTransaction(t *testing.T) {
	payer, err := GenerateKeypair(nil)
	require.NoError(t, err)

	addr, fp, err := account.Derive(testProgram, payer.PublicKey(), "inventory")
	require.NoError(t, err)
	ix, err := instructions.Create(testProgram, payer.PublicKey(), addr, fp, []byte{1, 2, 3})
	require.NoError(t, err)

	tx, err := compileTransaction(payer.PublicKey(), []instructions.Instruction{ix})
	require.NoError(t, err)

	require.Equal(t, solana.MessageHeader{
		NumRequiredSignatures:       1,
		NumReadonlySignedAccounts:   0,
		NumReadonlyUnsignedAccounts: 2,
	}, tx.Message.Header)
	require.Equal(t, keys(payer.PublicKey(), addr, account.SystemProgram, testProgram), tx.Message.AccountKeys)
	require.Equal(t, keys(payer.PublicKey()), tx.Message.Signers())

	require.Len(t, tx.Message.Instructions, 1)
	require.Equal(t, uint16(3), tx.Message.Instructions[0].ProgramIDIndex)
	require.Equal(t, []uint16{0, 1, 2}, tx.Message.Instructions[0].Accounts)

	bh := Blockhash{1, 2, 3}
	wire, sig, err := signTransaction(tx, bh, payer)
	require.NoError(t, err)

	raw, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 2, 4}, raw[:4])
	require.Equal(t, payer.PublicKey().Bytes(), raw[4:36])
	require.Equal(t, bh[:], raw[4+4*32:4+5*32])

	require.Equal(t, byte(1), wire[0])
	require.Equal(t, sig[:], wire[1:1+SignatureLength])
	require.Equal(t, raw, wire[1+SignatureLength:])
	require.True(t, ed25519.Verify(payer.PublicKey().Bytes(), raw, sig[:]))

	decoded, err := solana.TransactionFromBytes(wire)
	require.NoError(t, err)
	require.NoError(t, decoded.VerifySignatures())
}

func TestCompileTransactionOrdering(t *testing.T) {
	payer, err := GenerateKeypair(nil)
	require.NoError(t, err)
	cosigner, err := GenerateKeypair(nil)
	require.NoError(t, err)

	readonly := account.MustParseAddress("DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh")
	writable := account.MustParseAddress("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

	ixs := []instructions.Instruction{
		{
			ProgramID: testProgram,
			Accounts: []instructions.AccountMeta{
				{Address: readonly},
				{Address: writable, IsWritable: true},
				{Address: cosigner.PublicKey(), IsSigner: true},
			},
			Data: []byte{0},
		},
		{
			ProgramID: testProgram,
			Accounts: []instructions.AccountMeta{
				// upgraded to writable by the second reference
				{Address: readonly, IsWritable: true},
				{Address: payer.PublicKey(), IsSigner: true, IsWritable: true},
			},
			Data: []byte{1},
		},
	}

	tx, err := compileTransaction(payer.PublicKey(), ixs)
	require.NoError(t, err)
	require.Equal(t, keys(
		payer.PublicKey(),
		cosigner.PublicKey(),
		writable,
		readonly,
		testProgram,
	), tx.Message.AccountKeys)
	require.Equal(t, solana.MessageHeader{
		NumRequiredSignatures:       2,
		NumReadonlySignedAccounts:   1,
		NumReadonlyUnsignedAccounts: 1,
	}, tx.Message.Header)
	require.Equal(t, []uint16{3, 2, 1}, tx.Message.Instructions[0].Accounts)
	require.Equal(t, []uint16{3, 0}, tx.Message.Instructions[1].Accounts)

	_, _, err = signTransaction(tx, Blockhash{}, payer)
	require.ErrorIs(t, err, ErrMissingSigner)

	wire, sig, err := signTransaction(tx, Blockhash{}, cosigner, payer)
	require.NoError(t, err)
	require.Equal(t, byte(2), wire[0])
	// the fee payer's signature identifies the transaction
	require.Equal(t, sig[:], wire[1:1+SignatureLength])
}

func TestCompileTransactionLimits(t *testing.T) {
	payer, err := GenerateKeypair(nil)
	require.NoError(t, err)

	_, err = compileTransaction(payer.PublicKey(), nil)
	require.ErrorIs(t, err, ErrNoInstructions)

	ix := instructions.Instruction{ProgramID: testProgram, Data: []byte{0}}
	for i := range maxAccountKeys {
		var addr account.Address
		addr[0], addr[1] = byte(i), byte(i>>8)
		addr[2] = 0xff
		ix.Accounts = append(ix.Accounts, instructions.AccountMeta{Address: addr})
	}
	_, err = compileTransaction(payer.PublicKey(), []instructions.Instruction{ix})
	require.ErrorIs(t, err, ErrTooManyAccounts)
}

func TestCompileTransactionPacketSize(t *testing.T) {
	payer, err := GenerateKeypair(nil)
	require.NoError(t, err)
	addr, fp, err := account.Derive(testProgram, payer.PublicKey(), "blob")
	require.NoError(t, err)

	delegate := func(size int) instructions.Instruction {
		ix, err := instructions.Delegate(
			testProgram, instructions.DelegationProgram, payer.PublicKey(), addr, fp, make([]byte, size),
		)
		require.NoError(t, err)
		return ix
	}

	// the largest state image the builders accept fills the packet exactly
	tx, err := compileTransaction(payer.PublicKey(), []instructions.Instruction{delegate(instructions.MaxDataSize)})
	require.NoError(t, err)
	wire, _, err := signTransaction(tx, Blockhash{}, payer)
	require.NoError(t, err)
	require.Len(t, wire, MaxTransactionSize)

	// two instructions each within the builder bound still overflow
	_, err = compileTransaction(payer.PublicKey(), []instructions.Instruction{delegate(600), delegate(600)})
	require.ErrorIs(t, err, ErrTransactionTooLarge)

	oversized := instructions.Instruction{ProgramID: testProgram, Data: make([]byte, MaxTransactionSize)}
	_, err = compileTransaction(payer.PublicKey(), []instructions.Instruction{oversized})
	require.ErrorIs(t, err, ErrTransactionTooLarge)
}
