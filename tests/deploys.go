package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const (
	daoPath       = "../contracts/dao"
	gatePath      = "../contracts/gate"
	registryPath  = "../contracts/registry"
	stackingPath  = "../contracts/stacking"
	votingPath    = "../contracts/voting"
	treasuryPath  = "../contracts/treasury"
	bootstrapPath = "../contracts/bootstrap"

	noopPropPath   = "../internal/testcontracts/noopprop"
	failPropPath   = "../internal/testcontracts/failprop"
	sunsetPropPath = "../internal/testcontracts/sunsetprop"
	extPropPath    = "../internal/testcontracts/extprop"
	assetPropPath  = "../internal/testcontracts/assetprop"
)

// governanceSuite holds the hashes of a fully constructed contract suite:
// DAO core with the gate, registry, stacking and treasury contracts already
// enabled as extensions through the bootstrap proposal.
type governanceSuite struct {
	dao       util.Uint160
	gate      util.Uint160
	registry  util.Uint160
	stacking  util.Uint160
	treasury  util.Uint160
	bootstrap util.Uint160
}

func compileAndDeploy(t *testing.T, e *neotest.Executor, ctrPath string, args []interface{}) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

func deployDAOContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	return compileAndDeploy(t, e, daoPath, nil)
}

func deployGateContract(t *testing.T, e *neotest.Executor, dao util.Uint160, approvers []util.Uint160, required int64, sunset int64) util.Uint160 {
	accs := make([]interface{}, len(approvers))
	for i := range approvers {
		accs[i] = approvers[i]
	}

	args := make([]interface{}, 4)
	args[0] = dao
	args[1] = accs
	args[2] = required
	args[3] = sunset
	return compileAndDeploy(t, e, gatePath, args)
}

func deployRegistryContract(t *testing.T, e *neotest.Executor, dao util.Uint160) util.Uint160 {
	return compileAndDeploy(t, e, registryPath, []interface{}{dao})
}

func deployTreasuryContract(t *testing.T, e *neotest.Executor, dao util.Uint160, assets []util.Uint160) util.Uint160 {
	list := make([]interface{}, len(assets))
	for i := range assets {
		list[i] = assets[i]
	}
	return compileAndDeploy(t, e, treasuryPath, []interface{}{dao, list})
}

func deployStackingContract(t *testing.T, e *neotest.Executor, dao, registry, treasury util.Uint160, firstBlock, cycleLen int64) util.Uint160 {
	args := make([]interface{}, 5)
	args[0] = dao
	args[1] = registry
	args[2] = treasury
	args[3] = firstBlock
	args[4] = cycleLen
	return compileAndDeploy(t, e, stackingPath, args)
}

func deployVotingContract(t *testing.T, e *neotest.Executor, s governanceSuite, proposal util.Uint160, window, snapshotOffset int64, cities []int64, shareCap int64) util.Uint160 {
	list := make([]interface{}, len(cities))
	for i := range cities {
		list[i] = cities[i]
	}

	args := make([]interface{}, 8)
	args[0] = s.dao
	args[1] = s.registry
	args[2] = s.stacking
	args[3] = proposal
	args[4] = window
	args[5] = snapshotOffset
	args[6] = list
	args[7] = shareCap
	return compileAndDeploy(t, e, votingPath, args)
}

func deployBootstrapContract(t *testing.T, e *neotest.Executor, dao util.Uint160, extensions []util.Uint160) util.Uint160 {
	list := make([]interface{}, len(extensions))
	for i := range extensions {
		list[i] = extensions[i]
	}
	return compileAndDeploy(t, e, bootstrapPath, []interface{}{dao, list})
}

func deployNoopProposal(t *testing.T, e *neotest.Executor) util.Uint160 {
	return compileAndDeploy(t, e, noopPropPath, nil)
}

func deployFailProposal(t *testing.T, e *neotest.Executor) util.Uint160 {
	return compileAndDeploy(t, e, failPropPath, nil)
}

func deploySunsetProposal(t *testing.T, e *neotest.Executor, gate util.Uint160, height int64) util.Uint160 {
	return compileAndDeploy(t, e, sunsetPropPath, []interface{}{gate, height})
}

func deployExtensionProposal(t *testing.T, e *neotest.Executor, dao, target util.Uint160, enabled bool) util.Uint160 {
	return compileAndDeploy(t, e, extPropPath, []interface{}{dao, target, enabled})
}

func deployAssetProposal(t *testing.T, e *neotest.Executor, treasury, asset util.Uint160, allowed bool) util.Uint160 {
	return compileAndDeploy(t, e, assetPropPath, []interface{}{treasury, asset, allowed})
}

// deployGovernanceSuite deploys the whole contract suite and constructs the
// DAO core with the bootstrap proposal, leaving every supporting contract
// enabled as an extension. Gate approvers default to the committee account,
// with the required signal count of 1.
func deployGovernanceSuite(t *testing.T, e *neotest.Executor, firstBlock, cycleLen int64, approvers ...util.Uint160) governanceSuite {
	var s governanceSuite

	if len(approvers) == 0 {
		approvers = []util.Uint160{e.CommitteeHash}
	}

	s.dao = deployDAOContract(t, e)
	s.registry = deployRegistryContract(t, e, s.dao)
	s.treasury = deployTreasuryContract(t, e, s.dao, []util.Uint160{e.NativeHash(t, nativenames.Gas)})
	s.stacking = deployStackingContract(t, e, s.dao, s.registry, s.treasury, firstBlock, cycleLen)
	s.gate = deployGateContract(t, e, s.dao, approvers, 1, 1_000_000)
	s.bootstrap = deployBootstrapContract(t, e, s.dao, []util.Uint160{s.gate, s.registry, s.stacking, s.treasury})

	c := e.CommitteeInvoker(s.dao)
	c.Invoke(t, stackitem.Null{}, "construct", s.bootstrap)

	return s
}

// fundTreasury moves half of the committee's GAS into the treasury so claim
// payouts have something to draw from.
func fundTreasury(t *testing.T, e *neotest.Executor, treasury util.Uint160) {
	gasInvoker := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))

	res, err := gasInvoker.TestInvoke(t, "balanceOf", e.CommitteeHash)
	if err != nil {
		t.Fatal(err)
	}

	gasInvoker.Invoke(t, stackitem.NewBool(true), "transfer",
		e.CommitteeHash, treasury, res.Top().BigInt().Int64()/2, nil)
}
