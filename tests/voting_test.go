package tests

import (
	"testing"

	"github.com/citydao/citydao-contract/contracts/dao"
	"github.com/citydao/citydao-contract/contracts/voting"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type votingEnv struct {
	e     *neotest.Executor
	s     governanceSuite
	alice neotest.Signer
	bob   neotest.Signer
}

// newVotingEnv builds a suite with two cities and two stackers: alice locks
// 500 in city 1 and bob locks 300 in city 2, both covering cycles 1 through
// 4. The chain is then advanced into cycle 1 so that a referendum deployed
// by the test snapshots non-zero weights.
func newVotingEnv(t *testing.T) votingEnv {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 50)

	regInv := e.CommitteeInvoker(s.registry)
	regInv.Invoke(t, stackitem.Make(1), "resolveCity", "mia")
	regInv.Invoke(t, stackitem.Make(2), "resolveCity", "nyc")

	c := e.CommitteeInvoker(s.stacking)
	alice := c.NewAccount(t)
	bob := c.NewAccount(t)

	c.WithSigners(alice).Invoke(t, stackitem.NewBool(true), "stack", alice.ScriptHash(), 1, 500, 4)
	c.WithSigners(bob).Invoke(t, stackitem.NewBool(true), "stack", bob.ScriptHash(), 2, 300, 4)

	advanceChain(t, e, 52)

	return votingEnv{e: e, s: s, alice: alice, bob: bob}
}

// newReferendum deploys a fresh noop proposal plus a voting contract for it
// and enables the voting contract as an extension through the gate.
func (env votingEnv) newReferendum(t *testing.T, window, snapshotOffset int64, cities []int64, shareCap int64) (util.Uint160, *neotest.ContractInvoker) {
	noop := deployNoopProposal(t, env.e)
	v := deployVotingContract(t, env.e, env.s, noop, window, snapshotOffset, cities, shareCap)

	enable := deployExtensionProposal(t, env.e, env.s.dao, v, true)
	env.e.CommitteeInvoker(env.s.gate).Invoke(t, stackitem.Make(1), "signal", env.e.CommitteeHash, enable)

	return noop, env.e.CommitteeInvoker(v)
}

func votingEndHeight(t *testing.T, cv *neotest.ContractInvoker) int64 {
	res, err := cv.TestInvoke(t, "getProposalInfo")
	require.NoError(t, err)

	end, err := res.Top().Array()[2].TryInteger()
	require.NoError(t, err)
	return end.Int64()
}

func requireTotals(t *testing.T, cv *neotest.ContractInvoker, yes, no, yesCount, noCount int64) {
	res, err := cv.TestInvoke(t, "getVoteTotals")
	require.NoError(t, err)

	items := res.Top().Array()
	require.EqualValues(t, yes, items[0].Value())
	require.EqualValues(t, no, items[1].Value())
	require.EqualValues(t, yesCount, items[2].Value())
	require.EqualValues(t, noCount, items[3].Value())
}

func TestVoting_WeightedPass(t *testing.T) {
	env := newVotingEnv(t)
	noop, cv := env.newReferendum(t, 200, 0, []int64{1, 2}, 100)

	cv.Invoke(t, stackitem.NewBool(true), "isVoteActive")
	cv.WithSigners(env.alice).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), true)
	cv.WithSigners(env.bob).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), false)

	requireTotals(t, cv, 500, 300, 1, 1)

	res, err := cv.TestInvoke(t, "getCityVoteTotals", 1)
	require.NoError(t, err)
	require.EqualValues(t, 500, res.Top().Array()[0].Value())

	res, err = cv.TestInvoke(t, "getCityVoteTotals", 2)
	require.NoError(t, err)
	require.EqualValues(t, 300, res.Top().Array()[1].Value())

	res, err = cv.TestInvoke(t, "getVoterInfo", 1)
	require.NoError(t, err)
	info := res.Top().Array()
	require.EqualValues(t, true, info[0].Value())
	require.EqualValues(t, 500, info[1].Value())

	// the referendum can not be closed while the window is open
	cv.InvokeFail(t, voting.ErrProposalNotActive, "execute")

	advanceChain(t, env.e, uint32(votingEndHeight(t, cv))+2)
	cv.Invoke(t, stackitem.NewBool(false), "isVoteActive")
	cv.Invoke(t, stackitem.NewBool(true), "execute")

	e := env.e
	e.CommitteeInvoker(noop).Invoke(t, stackitem.Make(1), "count")

	res, err = e.CommitteeInvoker(env.s.dao).TestInvoke(t, "executedAt", noop)
	require.NoError(t, err)
	require.Positive(t, res.Top().BigInt().Int64())

	// both execution paths share the same marker
	cv.InvokeFail(t, dao.ErrAlreadyExecuted, "execute")
	e.CommitteeInvoker(env.s.gate).InvokeFail(t, dao.ErrAlreadyExecuted, "signal", e.CommitteeHash, noop)
	e.CommitteeInvoker(noop).Invoke(t, stackitem.Make(1), "count")
}

func TestVoting_ReversalConservesWeight(t *testing.T) {
	env := newVotingEnv(t)
	_, cv := env.newReferendum(t, 200, 0, []int64{1, 2}, 100)

	cvAlice := cv.WithSigners(env.alice)
	cvBob := cv.WithSigners(env.bob)

	cvAlice.Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), true)
	cvBob.Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), true)
	requireTotals(t, cv, 800, 0, 2, 0)

	// a reversal moves the stored weight, it never re-reads the ledger
	cvBob.Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), false)
	requireTotals(t, cv, 500, 300, 1, 1)

	cvBob.InvokeFail(t, voting.ErrVotedAlready, "voteOnProposal", env.bob.ScriptHash(), false)
	requireTotals(t, cv, 500, 300, 1, 1)

	cvAlice.Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), false)
	requireTotals(t, cv, 0, 800, 0, 2)

	cvAlice.Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), true)
	requireTotals(t, cv, 500, 300, 1, 1)

	res, err := cv.TestInvoke(t, "getCityVoteTotals", 2)
	require.NoError(t, err)
	items := res.Top().Array()
	require.EqualValues(t, 0, items[0].Value())
	require.EqualValues(t, 300, items[1].Value())
}

func TestVoting_VoteChecks(t *testing.T) {
	env := newVotingEnv(t)
	e := env.e
	_, cv := env.newReferendum(t, 40, 0, []int64{1, 2}, 100)

	// never registered
	charlie := e.NewAccount(t)
	cv.WithSigners(charlie).InvokeFail(t, voting.ErrUserNotFound, "voteOnProposal", charlie.ScriptHash(), true)

	// registered, but without weight in the snapshot cycle
	dave := e.NewAccount(t)
	e.CommitteeInvoker(env.s.registry).WithSigners(dave).Invoke(t, stackitem.Make(3), "resolveUser", dave.ScriptHash())
	cv.WithSigners(dave).InvokeFail(t, voting.ErrNothingStacked, "voteOnProposal", dave.ScriptHash(), true)

	advanceChain(t, e, uint32(votingEndHeight(t, cv))+2)

	cv.Invoke(t, stackitem.NewBool(false), "isVoteActive")
	cv.WithSigners(env.alice).InvokeFail(t, voting.ErrProposalNotActive, "voteOnProposal", env.alice.ScriptHash(), true)
}

func TestVoting_SnapshotOffset(t *testing.T) {
	env := newVotingEnv(t)

	// offset 1 points at cycle 0, before either stacker locked anything
	_, cv := env.newReferendum(t, 200, 1, []int64{1, 2}, 100)
	cv.WithSigners(env.alice).InvokeFail(t, voting.ErrNothingStacked, "voteOnProposal", env.alice.ScriptHash(), true)
}

func TestVoting_ExecutedProposalClosesVote(t *testing.T) {
	env := newVotingEnv(t)
	e := env.e
	noop, cv := env.newReferendum(t, 200, 0, []int64{1, 2}, 100)

	// the proposal goes through the signal gate first
	e.CommitteeInvoker(env.s.gate).Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, noop)

	cv.Invoke(t, stackitem.NewBool(false), "isVoteActive")
	cv.WithSigners(env.alice).InvokeFail(t, voting.ErrProposalNotActive, "voteOnProposal", env.alice.ScriptHash(), true)
}

func TestVoting_FailedVote(t *testing.T) {
	env := newVotingEnv(t)
	noop, cv := env.newReferendum(t, 40, 0, []int64{1, 2}, 100)

	// only opposition votes
	cv.WithSigners(env.bob).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), false)

	advanceChain(t, env.e, uint32(votingEndHeight(t, cv))+2)
	cv.InvokeFail(t, voting.ErrVoteFailed, "execute")

	env.e.CommitteeInvoker(env.s.dao).Invoke(t, stackitem.Make(0), "executedAt", noop)
}

func TestVoting_ShareCap(t *testing.T) {
	env := newVotingEnv(t)

	// alice alone holds 500 of the 800 yes weight, 62 percent
	_, capped := env.newReferendum(t, 40, 0, []int64{1, 2}, 60)
	capped.WithSigners(env.alice).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), true)
	capped.WithSigners(env.bob).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), true)

	noop2, loose := env.newReferendum(t, 40, 0, []int64{1, 2}, 70)
	loose.WithSigners(env.alice).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.alice.ScriptHash(), true)
	loose.WithSigners(env.bob).Invoke(t, stackitem.NewBool(true), "voteOnProposal", env.bob.ScriptHash(), true)

	end := votingEndHeight(t, loose)
	advanceChain(t, env.e, uint32(end)+2)

	capped.InvokeFail(t, voting.ErrVoteFailed, "execute")
	loose.Invoke(t, stackitem.NewBool(true), "execute")

	env.e.CommitteeInvoker(noop2).Invoke(t, stackitem.Make(1), "count")
}
