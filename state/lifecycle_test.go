package state

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/instructions"
	"github.com/mojo-labs/mojo/ledgertest"
	"github.com/mojo-labs/mojo/state/mocks"
)

func TestDelegateFailureLeavesCreated(t *testing.T) {
	ctx := context.Background()
	r, l := newTestRouter(t)
	payer := newPayer(t)

	// create succeeds, delegate fails
	l.FailNext(ledgertest.BaseEndpoint, nil)
	l.FailNext(ledgertest.BaseEndpoint, core.ErrConfirmTimeout)

	_, err := CreateState(ctx, r, payer, "inventory", inventory{Count: 1})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSubmission)
	require.ErrorIs(t, err, core.ErrConfirmTimeout)

	lc, err := r.Lifecycle(payer.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, Created, lc)

	// writes are rejected locally until the account is delegated
	_, err = WriteState(ctx, r, payer, "inventory", inventory{Count: 2})
	require.ErrorIs(t, err, ErrNotDelegated)

	_, err = DelegateState(ctx, r, payer, "inventory", inventory{Count: 1})
	require.NoError(t, err)
	lc, err = r.Lifecycle(payer.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, Delegated, lc)

	_, err = DelegateState(ctx, r, payer, "inventory", inventory{Count: 1})
	require.ErrorIs(t, err, ErrAlreadyDelegated)

	_, err = WriteState(ctx, r, payer, "inventory", inventory{Count: 2})
	require.NoError(t, err)
	got, err := ReadState[inventory](ctx, r, payer.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, inventory{Count: 2}, got)
}

func TestUnknownLifecycle(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(testProgram)
	creator, _ := newTestRouterWithLedger(t, l)
	payer := newPayer(t)

	_, err := CreateState(ctx, creator, payer, "inventory", inventory{Count: 1})
	require.NoError(t, err)

	// a second router has not observed the account
	other, _ := newTestRouterWithLedger(t, l)
	lc, err := other.Lifecycle(payer.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, Unknown, lc)

	_, err = WriteState(ctx, other, payer, "inventory", inventory{Count: 3})
	require.NoError(t, err)

	// writes to accounts that were never created are rejected remotely
	_, err = WriteState(ctx, other, payer, "missing", inventory{Count: 3})
	require.ErrorIs(t, err, ErrSubmission)
	require.ErrorIs(t, err, ledgertest.ErrRejected)
}

func TestStrictLifecycle(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(testProgram)
	creator, _ := newTestRouterWithLedger(t, l)
	payer := newPayer(t)

	_, err := CreateState(ctx, creator, payer, "inventory", inventory{Count: 1})
	require.NoError(t, err)

	strict, _ := newTestRouterWithLedger(t, l, WithStrictLifecycle())
	lc, err := strict.Lifecycle(payer.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, Uninitialized, lc)

	_, err = WriteState(ctx, strict, payer, "inventory", inventory{Count: 3})
	require.ErrorIs(t, err, ErrNotDelegated)
	_, err = DelegateState(ctx, strict, payer, "inventory", inventory{Count: 1})
	require.ErrorIs(t, err, ErrNotCreated)

	// reading the account from the ephemeral layer proves it is delegated
	_, err = ReadState[inventory](ctx, strict, payer.PublicKey(), "inventory")
	require.NoError(t, err)
	_, err = WriteState(ctx, strict, payer, "inventory", inventory{Count: 3})
	require.NoError(t, err)
}

func TestLifecycleString(t *testing.T) {
	require.Equal(t, "unknown", Unknown.String())
	require.Equal(t, "uninitialized", Uninitialized.String())
	require.Equal(t, "created", Created.String())
	require.Equal(t, "delegated", Delegated.String())
	require.Equal(t, "lifecycle(9)", Lifecycle(9).String())
}

func TestCreateSequencing(t *testing.T) {
	ctx := context.Background()
	errRemote := errors.New("blockhash not found")

	tests := []struct {
		name   string
		expect func(s *mocks.MockSubmitter)
		expErr error
		expLc  Lifecycle
	}{
		{
			name: "create fails, delegate never sent",
			expect: func(s *mocks.MockSubmitter) {
				s.EXPECT().
					Submit(gomock.Any(), ledgertest.BaseEndpoint, gomock.Any(), kinds(instructions.KindCreate)).
					Return(core.Signature{}, errRemote)
			},
			expErr: errRemote,
			expLc:  Unknown,
		},
		{
			name: "delegate fails, no retry",
			expect: func(s *mocks.MockSubmitter) {
				gomock.InOrder(
					s.EXPECT().
						Submit(gomock.Any(), ledgertest.BaseEndpoint, gomock.Any(), kinds(instructions.KindCreate)).
						Return(core.Signature{1}, nil),
					s.EXPECT().
						Submit(gomock.Any(), ledgertest.BaseEndpoint, gomock.Any(), kinds(instructions.KindDelegate)).
						Return(core.Signature{}, errRemote),
				)
			},
			expErr: errRemote,
			expLc:  Created,
		},
		{
			name: "both confirmed",
			expect: func(s *mocks.MockSubmitter) {
				gomock.InOrder(
					s.EXPECT().
						Submit(gomock.Any(), ledgertest.BaseEndpoint, gomock.Any(), kinds(instructions.KindCreate)).
						Return(core.Signature{1}, nil),
					s.EXPECT().
						Submit(gomock.Any(), ledgertest.BaseEndpoint, gomock.Any(), kinds(instructions.KindDelegate)).
						Return(core.Signature{2}, nil),
				)
			},
			expLc: Delegated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			submitter := mocks.NewMockSubmitter(ctrl)
			fetcher := mocks.NewMockAccountFetcher(ctrl)
			tt.expect(submitter)

			r, err := NewRouter(core.Localnet, ledgertest.Endpoints(), submitter, fetcher, WithProgram(testProgram))
			require.NoError(t, err)
			payer := newPayer(t)

			_, err = CreateState(ctx, r, payer, "inventory", inventory{})
			if tt.expErr != nil {
				require.ErrorIs(t, err, ErrSubmission)
				require.ErrorIs(t, err, tt.expErr)
			} else {
				require.NoError(t, err)
			}

			lc, err := r.Lifecycle(payer.PublicKey(), "inventory")
			require.NoError(t, err)
			require.Equal(t, tt.expLc, lc)
		})
	}
}

func TestReadUsesEphemeralEndpoint(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	submitter := mocks.NewMockSubmitter(ctrl)
	fetcher := mocks.NewMockAccountFetcher(ctrl)

	r, err := NewRouter(core.Localnet, ledgertest.Endpoints(), submitter, fetcher, WithProgram(testProgram))
	require.NoError(t, err)
	owner := newPayer(t)
	d, err := r.Derive(owner.PublicKey(), "inventory")
	require.NoError(t, err)

	fetcher.EXPECT().
		AccountBytes(gomock.Any(), ledgertest.EphemeralEndpoint, d.Address).
		Return([]byte{5, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}, nil)

	got, err := ReadState[inventory](ctx, r, owner.PublicKey(), "inventory")
	require.NoError(t, err)
	require.Equal(t, inventory{Count: 5}, got)
}

// kinds matches a single-transaction instruction list by instruction kinds.
func kinds(expected ...instructions.Kind) gomock.Matcher {
	return kindsMatcher(expected)
}

type kindsMatcher []instructions.Kind

func (m kindsMatcher) Matches(x interface{}) bool {
	ixs, ok := x.([]instructions.Instruction)
	if !ok || len(ixs) != len(m) {
		return false
	}
	for i, ix := range ixs {
		kind, _, _, err := instructions.Parse(ix)
		if err != nil || kind != m[i] {
			return false
		}
	}
	return true
}

func (m kindsMatcher) String() string {
	return fmt.Sprintf("instructions of kinds %v", []instructions.Kind(m))
}

func TestTrackerCapacity(t *testing.T) {
	tr, err := newTracker(2, false)
	require.NoError(t, err)

	addrs := make([]account.Address, 64)
	for i := range addrs {
		addrs[i][0], addrs[i][1] = byte(i), 0xee
		tr.observedDelegated(addrs[i])
		require.LessOrEqual(t, tr.states.Len(), 2)
	}

	// the most recent accounts are kept, older ones fall back to Unknown
	require.Equal(t, Delegated, tr.get(addrs[63]))
	require.Equal(t, Delegated, tr.get(addrs[62]))
	require.Equal(t, Unknown, tr.get(addrs[0]))

	// observing never downgrades a tracked account
	tr.created(addrs[63])
	tr.observedDelegated(addrs[63])
	require.Equal(t, Created, tr.get(addrs[63]))

	strict, err := newTracker(1, true)
	require.NoError(t, err)
	strict.delegated(addrs[0])
	strict.delegated(addrs[1])
	require.Equal(t, Uninitialized, strict.get(addrs[0]))
	require.NoError(t, strict.checkWrite(addrs[1]))

	_, err = NewRouter(core.Localnet, ledgertest.Endpoints(), ledgertest.New(testProgram),
		ledgertest.New(testProgram), WithLifecycleCapacity(0))
	require.Error(t, err)
}
