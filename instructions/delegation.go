package instructions

import (
	"fmt"

	"github.com/mojo-labs/mojo/account"
)

var (
	bufferSeed             = []byte("buffer")
	delegationRecordSeed   = []byte("delegation")
	delegationMetadataSeed = []byte("delegation-metadata")
)

// DelegationProgram is the delegation program of the public ephemeral layer
// deployments.
var DelegationProgram = account.MustParseAddress("DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh")

// Delegation holds the auxiliary accounts a delegation touches.
type Delegation struct {
	// Buffer temporarily holds the account data while ownership moves, owned by the world program.
	Buffer account.Address
	// Record stores the delegation authority, owned by the delegation program.
	Record account.Address
	// Metadata stores the seeds and rent payer, owned by the delegation program.
	Metadata account.Address
}

// DelegationAccounts derives the auxiliary delegation accounts of address.
func DelegationAccounts(program, delegation, address account.Address) (Delegation, error) {
	buffer, _, err := account.FindProgramAddress([][]byte{bufferSeed, address[:]}, program)
	if err != nil {
		return Delegation{}, fmt.Errorf("instructions: deriving delegation buffer: %w", err)
	}
	record, _, err := account.FindProgramAddress([][]byte{delegationRecordSeed, address[:]}, delegation)
	if err != nil {
		return Delegation{}, fmt.Errorf("instructions: deriving delegation record: %w", err)
	}
	metadata, _, err := account.FindProgramAddress([][]byte{delegationMetadataSeed, address[:]}, delegation)
	if err != nil {
		return Delegation{}, fmt.Errorf("instructions: deriving delegation metadata: %w", err)
	}

	return Delegation{
		Buffer:   buffer,
		Record:   record,
		Metadata: metadata,
	}, nil
}
