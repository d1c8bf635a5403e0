package tests

import (
	"testing"

	"github.com/citydao/citydao-contract/common"
	"github.com/citydao/citydao-contract/contracts/gate"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func TestGate_Deploy(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.gate)

	c.Invoke(t, stackitem.Make(1), "getSignalsRequired")
	c.Invoke(t, stackitem.Make(1_000_000), "getSunsetBlockHeight")
	c.Invoke(t, stackitem.NewBool(true), "isApprover", e.CommitteeHash)

	acc := c.NewAccount(t)
	c.Invoke(t, stackitem.NewBool(false), "isApprover", acc.ScriptHash())
}

func TestGate_SignalChecks(t *testing.T) {
	e := newExecutor(t)
	alice := e.NewAccount(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.gate)

	noop := deployNoopProposal(t, e)

	// an approver's signal needs the approver's own signature
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "signal", alice.ScriptHash(), noop)

	// a signed non-approver is still rejected
	c.WithSigners(alice).InvokeFail(t, gate.ErrNotApprover, "signal", alice.ScriptHash(), noop)
}

// secondGate installs an extra gate with the given approvers and threshold
// through an extension proposal run by the suite's default gate.
func secondGate(t *testing.T, e *neotest.Executor, s governanceSuite, approvers []util.Uint160, required int64) util.Uint160 {
	g2 := deployGateContract(t, e, s.dao, approvers, required, 1_000_000)
	prop := deployExtensionProposal(t, e, s.dao, g2, true)
	e.CommitteeInvoker(s.gate).Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, prop)
	return g2
}

func TestGate_SignalQuorum(t *testing.T) {
	e := newExecutor(t)
	alice := e.NewAccount(t)
	s := deployGovernanceSuite(t, e, 0, 10)

	g2 := secondGate(t, e, s, []util.Uint160{e.CommitteeHash, alice.ScriptHash()}, 2)
	c := e.CommitteeInvoker(g2)
	daoInv := e.CommitteeInvoker(s.dao)

	noop := deployNoopProposal(t, e)
	noopInv := e.CommitteeInvoker(noop)

	c.Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, noop)
	c.Invoke(t, stackitem.NewBool(true), "hasSignalled", noop, e.CommitteeHash)
	c.Invoke(t, stackitem.Make(1), "getSignalCount", noop)

	// below the threshold nothing runs
	daoInv.Invoke(t, stackitem.Make(0), "executedAt", noop)
	noopInv.Invoke(t, stackitem.Make(0), "count")

	// one account counts once, no matter how often it signals
	c.InvokeFail(t, gate.ErrAlreadySignalled, "signal", e.CommitteeHash, noop)
	c.Invoke(t, stackitem.Make(1), "getSignalCount", noop)

	// the second distinct approver crosses the threshold and executes
	c.WithSigners(alice).Invoke(t, stackitem.Make(2), "signal", alice.ScriptHash(), noop)
	noopInv.Invoke(t, stackitem.Make(1), "count")
}

func TestGate_Sunset(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.gate)
	daoInv := e.CommitteeInvoker(s.dao)

	target := int64(e.Chain.BlockHeight()) + 20

	prop := deploySunsetProposal(t, e, s.gate, target)
	c.Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, prop)
	c.Invoke(t, stackitem.Make(target), "getSunsetBlockHeight")

	// still comfortably before the sunset height
	noop := deployNoopProposal(t, e)
	c.Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, noop)
	daoInv.Invoke(t, stackitem.NewBool(true), "isExtension", s.gate)

	// the sunset can not be moved into the past
	past := deploySunsetProposal(t, e, s.gate, int64(e.Chain.BlockHeight())-1)
	c.InvokeFail(t, gate.ErrSunsetInPast, "signal", e.CommitteeHash, past)

	advanceChain(t, e, uint32(target)+2)

	late := deployNoopProposal(t, e)
	c.InvokeFail(t, gate.ErrSunsetReached, "signal", e.CommitteeHash, late)
}

func TestGate_SettersRequireAuthorization(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.gate)

	acc := c.NewAccount(t)
	c.InvokeFail(t, gate.ErrUnauthorized, "setApprover", acc.ScriptHash(), true)
	c.InvokeFail(t, gate.ErrUnauthorized, "setSignalsRequired", 5)
	c.InvokeFail(t, gate.ErrUnauthorized, "setSunsetBlockHeight", 1_000_000)
}
