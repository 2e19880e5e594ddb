package instructions

import (
	"errors"
	"fmt"

	"github.com/mojo-labs/mojo/account"
)

// PacketSize is the largest serialized transaction the ledger accepts.
const PacketSize = 1232

// delegateTxOverhead is the wire size of a single-signer transaction carrying
// one Delegate instruction, minus its state bytes: signature count and
// signature, message header, eight account keys, blockhash, instruction count,
// program index, account index list, data length prefix and data header.
const delegateTxOverhead = 1 + 64 + 3 + (1 + 8*32) + 32 + 1 + 1 + (1 + 8) + 2 + headerSize

// MaxDataSize bounds the state image carried by a single instruction so
// that the largest builder output, Delegate, still fits in one packet.
const MaxDataSize = PacketSize - delegateTxOverhead

// headerSize is the discriminator byte plus the seed fingerprint.
const headerSize = 1 + account.FingerprintLength

var (
	ErrEmptyData          = errors.New("instructions: empty state data")
	ErrDataTooLarge       = errors.New("instructions: state data too large")
	ErrMalformed          = errors.New("instructions: malformed instruction data")
	ErrUnknownInstruction = errors.New("instructions: unknown instruction")
)

// Kind identifies the operation an instruction asks the world program to perform.
type Kind uint8

const (
	// KindCreate allocates the derived account and initializes it with the state image.
	KindCreate Kind = iota
	// KindDelegate hands write authority over the account to the ephemeral layer.
	KindDelegate
	// KindWrite replaces the account's state image.
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindDelegate:
		return "delegate"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// AccountMeta describes how an instruction uses an account.
type AccountMeta struct {
	Address    account.Address
	IsSigner   bool
	IsWritable bool
}

// Instruction is an opaque program invocation ready to be placed in a transaction.
type Instruction struct {
	ProgramID account.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Create builds the instruction allocating address and initializing it with
// data. The fingerprint binds the account to its (owner, name) seed.
func Create(
	program, payer, address account.Address,
	fp account.Fingerprint,
	data []byte,
) (Instruction, error) {
	payload, err := encode(KindCreate, fp, data)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Address: payer, IsSigner: true, IsWritable: true},
			{Address: address, IsWritable: true},
			{Address: account.SystemProgram},
		},
		Data: payload,
	}, nil
}

// Delegate builds the instruction that authorizes the ephemeral layer to
// accept writes for address. It must follow a confirmed Create.
func Delegate(
	program, delegation, payer, address account.Address,
	fp account.Fingerprint,
	data []byte,
) (Instruction, error) {
	payload, err := encode(KindDelegate, fp, data)
	if err != nil {
		return Instruction{}, err
	}

	accs, err := DelegationAccounts(program, delegation, address)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Address: payer, IsSigner: true, IsWritable: true},
			{Address: address, IsWritable: true},
			{Address: program},
			{Address: accs.Buffer, IsWritable: true},
			{Address: accs.Record, IsWritable: true},
			{Address: accs.Metadata, IsWritable: true},
			{Address: delegation},
			{Address: account.SystemProgram},
		},
		Data: payload,
	}, nil
}

// Write builds the full-replacement write of address. It is only valid
// against the ephemeral layer once the account is delegated.
func Write(
	program, payer, address account.Address,
	fp account.Fingerprint,
	data []byte,
) (Instruction, error) {
	payload, err := encode(KindWrite, fp, data)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Address: payer, IsSigner: true, IsWritable: true},
			{Address: address, IsWritable: true},
		},
		Data: payload,
	}, nil
}

// Parse splits instruction data built by this package back into its parts.
func Parse(ix Instruction) (Kind, account.Fingerprint, []byte, error) {
	if len(ix.Data) < headerSize+1 {
		return 0, account.Fingerprint{}, nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(ix.Data))
	}

	kind := Kind(ix.Data[0])
	if kind > KindWrite {
		return 0, account.Fingerprint{}, nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, kind)
	}

	var fp account.Fingerprint
	copy(fp[:], ix.Data[1:headerSize])
	return kind, fp, ix.Data[headerSize:], nil
}

func encode(kind Kind, fp account.Fingerprint, data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, ErrEmptyData
	case len(data) > MaxDataSize:
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrDataTooLarge, len(data), MaxDataSize)
	}

	payload := make([]byte, 0, headerSize+len(data))
	payload = append(payload, byte(kind))
	payload = append(payload, fp[:]...)
	payload = append(payload, data...)
	return payload, nil
}
