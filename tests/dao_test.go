package tests

import (
	"testing"

	"github.com/citydao/citydao-contract/contracts/dao"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestDAO_Construct(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.dao)

	for _, ext := range []util.Uint160{s.gate, s.registry, s.stacking, s.treasury} {
		c.Invoke(t, stackitem.NewBool(true), "isExtension", ext)
	}
	c.Invoke(t, stackitem.NewBool(false), "isExtension", s.bootstrap)

	res, err := c.TestInvoke(t, "executedAt", s.bootstrap)
	require.NoError(t, err)
	require.Positive(t, res.Top().BigInt().Int64())

	c.InvokeFail(t, dao.ErrAlreadyConstructed, "construct", s.bootstrap)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, "only committee can construct dao", "construct", s.bootstrap)
}

func TestDAO_ExecuteRequiresExtension(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.dao)

	noop := deployNoopProposal(t, e)

	// direct invocation is never an enabled extension
	c.InvokeFail(t, dao.ErrUnauthorized, "execute", noop)
	c.Invoke(t, stackitem.Make(0), "executedAt", noop)
}

func TestDAO_ExecuteAtMostOnce(t *testing.T) {
	e := newExecutor(t)
	alice := e.NewAccount(t)
	bob := e.NewAccount(t)
	s := deployGovernanceSuite(t, e, 0, 10, alice.ScriptHash(), bob.ScriptHash())

	noop := deployNoopProposal(t, e)
	noopInv := e.CommitteeInvoker(noop)
	gateInv := e.CommitteeInvoker(s.gate)
	daoInv := e.CommitteeInvoker(s.dao)

	gateInv.WithSigners(alice).Invoke(t, stackitem.Make(1), "signal", alice.ScriptHash(), noop)
	noopInv.Invoke(t, stackitem.Make(1), "count")

	res, err := daoInv.TestInvoke(t, "executedAt", noop)
	require.NoError(t, err)
	require.Positive(t, res.Top().BigInt().Int64())

	// the second approver crosses the threshold again, but the execution
	// marker written by the first run blocks the re-run
	gateInv.WithSigners(bob).InvokeFail(t, dao.ErrAlreadyExecuted, "signal", bob.ScriptHash(), noop)
	noopInv.Invoke(t, stackitem.Make(1), "count")
}

func TestDAO_FailedProposalLeavesNoTrace(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	gateInv := e.CommitteeInvoker(s.gate)
	daoInv := e.CommitteeInvoker(s.dao)

	fail := deployFailProposal(t, e)

	gateInv.InvokeFail(t, "proposal body failed", "signal", e.CommitteeHash, fail)

	// the fault rolled the whole transaction back, marker and signal included
	daoInv.Invoke(t, stackitem.Make(0), "executedAt", fail)
	gateInv.Invoke(t, stackitem.Make(0), "getSignalCount", fail)
}

func TestDAO_SetExtension(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	gateInv := e.CommitteeInvoker(s.gate)
	daoInv := e.CommitteeInvoker(s.dao)

	target := deployNoopProposal(t, e)

	// nobody outside the suite may touch the extension set
	daoInv.InvokeFail(t, dao.ErrUnauthorized, "setExtension", target, true)

	prop := deployExtensionProposal(t, e, s.dao, target, true)
	gateInv.Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, prop)
	daoInv.Invoke(t, stackitem.NewBool(true), "isExtension", target)

	res, err := daoInv.TestInvoke(t, "extensions")
	require.NoError(t, err)

	iter := res.Pop().Value().(*storage.Iterator)
	hashes := make(map[util.Uint160]bool)
	for _, item := range iteratorToArray(iter) {
		raw, err := item.TryBytes()
		require.NoError(t, err)

		h, err := util.Uint160DecodeBytesBE(raw)
		require.NoError(t, err)
		hashes[h] = true
	}
	for _, ext := range []util.Uint160{s.gate, s.registry, s.stacking, s.treasury, target} {
		require.True(t, hashes[ext])
	}
}

func TestDAO_AuthorizationIsNeverCached(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	gateInv := e.CommitteeInvoker(s.gate)
	daoInv := e.CommitteeInvoker(s.dao)

	disable := deployExtensionProposal(t, e, s.dao, s.gate, false)
	gateInv.Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, disable)
	daoInv.Invoke(t, stackitem.NewBool(false), "isExtension", s.gate)

	// the very next signal re-reads the extension flag and is rejected
	noop := deployNoopProposal(t, e)
	gateInv.InvokeFail(t, dao.ErrUnauthorized, "signal", e.CommitteeHash, noop)
}
