// Package deploy provides the CityDAO governance suite deployment procedure.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"

	daorpc "github.com/citydao/citydao-contract/rpc/dao"
)

// Blockchain groups services of a Neo blockchain network required for the
// governance suite deployment.
type Blockchain interface {
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns an error with 'Unknown contract' substring if
	// the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups the compiled artifacts of one smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// GatePrm groups deployment parameters of the execution gate contract.
type GatePrm struct {
	Common CommonDeployPrm

	Approvers       []util.Uint160
	SignalsRequired int64
	SunsetHeight    int64
}

// StackingPrm groups deployment parameters of the stacking ledger contract.
type StackingPrm struct {
	Common CommonDeployPrm

	FirstBlock  int64
	CycleLength int64
}

// TreasuryPrm groups deployment parameters of the treasury contract.
type TreasuryPrm struct {
	Common CommonDeployPrm

	AllowedAssets []util.Uint160
}

// Prm groups all parameters of the governance suite deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance the suite is deployed to.
	Blockchain Blockchain

	// Committee account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	DAOContract       CommonDeployPrm
	RegistryContract  CommonDeployPrm
	BootstrapContract CommonDeployPrm
	GateContract      GatePrm
	StackingContract  StackingPrm
	TreasuryContract  TreasuryPrm
}

// Contracts groups addresses of the deployed governance suite.
type Contracts struct {
	DAO       util.Uint160
	Gate      util.Uint160
	Registry  util.Uint160
	Stacking  util.Uint160
	Treasury  util.Uint160
	Bootstrap util.Uint160
}

// Deploy deploys the whole governance suite on the Neo network represented
// by Prm.Blockchain and constructs the DAO core through the bootstrap
// proposal. The procedure is idempotent: contracts that are already on the
// chain are left as they are, and the construct step is skipped when the
// bootstrap proposal has an execution height recorded.
func Deploy(ctx context.Context, prm Prm) (*Contracts, error) {
	if prm.Logger == nil {
		return nil, errors.New("missing logger")
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return nil, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	d := deployer{
		ctx:   ctx,
		log:   prm.Logger,
		chain: prm.Blockchain,
		act:   act,
		mgmt:  management.New(act),
	}

	var res Contracts

	res.DAO, err = d.deployContract(prm.DAOContract, nil)
	if err != nil {
		return nil, fmt.Errorf("deploy DAO core contract: %w", err)
	}

	res.Registry, err = d.deployContract(prm.RegistryContract, []any{res.DAO})
	if err != nil {
		return nil, fmt.Errorf("deploy registry contract: %w", err)
	}

	assets := make([]any, len(prm.TreasuryContract.AllowedAssets))
	for i := range prm.TreasuryContract.AllowedAssets {
		assets[i] = prm.TreasuryContract.AllowedAssets[i]
	}
	res.Treasury, err = d.deployContract(prm.TreasuryContract.Common, []any{res.DAO, assets})
	if err != nil {
		return nil, fmt.Errorf("deploy treasury contract: %w", err)
	}

	res.Stacking, err = d.deployContract(prm.StackingContract.Common, []any{
		res.DAO, res.Registry, res.Treasury,
		prm.StackingContract.FirstBlock, prm.StackingContract.CycleLength,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy stacking contract: %w", err)
	}

	approvers := make([]any, len(prm.GateContract.Approvers))
	for i := range prm.GateContract.Approvers {
		approvers[i] = prm.GateContract.Approvers[i]
	}
	res.Gate, err = d.deployContract(prm.GateContract.Common, []any{
		res.DAO, approvers,
		prm.GateContract.SignalsRequired, prm.GateContract.SunsetHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy gate contract: %w", err)
	}

	res.Bootstrap, err = d.deployContract(prm.BootstrapContract, []any{
		res.DAO,
		[]any{res.Gate, res.Registry, res.Stacking, res.Treasury},
	})
	if err != nil {
		return nil, fmt.Errorf("deploy bootstrap contract: %w", err)
	}

	err = d.constructDAO(res.DAO, res.Bootstrap)
	if err != nil {
		return nil, fmt.Errorf("construct DAO core: %w", err)
	}

	prm.Logger.Info("governance suite is deployed and constructed",
		zap.Stringer("dao", res.DAO),
		zap.Stringer("gate", res.Gate),
		zap.Stringer("registry", res.Registry),
		zap.Stringer("stacking", res.Stacking),
		zap.Stringer("treasury", res.Treasury),
		zap.Stringer("bootstrap", res.Bootstrap))

	return &res, nil
}

type deployer struct {
	ctx   context.Context
	log   *zap.Logger
	chain Blockchain
	act   *actor.Actor
	mgmt  *management.Contract
}

// deployContract deploys one contract with the given _deploy arguments,
// unless it is already on the chain. The contract address is derived from
// the deployer account, so a repeated run computes the same address.
func (d deployer) deployContract(prm CommonDeployPrm, args []any) (util.Uint160, error) {
	if err := d.ctx.Err(); err != nil {
		return util.Uint160{}, fmt.Errorf("wait for contract deployment: %w", err)
	}

	hash := state.CreateContractHash(d.act.Sender(), prm.NEF.Checksum, prm.Manifest.Name)
	l := d.log.With(zap.String("contract", prm.Manifest.Name), zap.Stringer("address", hash))

	_, err := d.chain.GetContractStateByHash(hash)
	if err == nil {
		l.Info("contract is already deployed, skipping")
		return hash, nil
	}
	if !strings.Contains(err.Error(), "Unknown contract") {
		return util.Uint160{}, fmt.Errorf("read state of contract %s: %w", prm.Manifest.Name, err)
	}

	l.Info("deploying contract...")

	var data any
	if args != nil {
		data = args
	}

	txHash, vub, err := d.mgmt.Deploy(&prm.NEF, &prm.Manifest, data)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	_, err = d.act.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", txHash, err)
	}

	l.Info("contract successfully deployed")

	return hash, nil
}

// constructDAO runs the bootstrap proposal through the DAO core once. The
// execution height recorded by the core makes repeated runs no-ops.
func (d deployer) constructDAO(daoHash, bootstrapHash util.Uint160) error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("wait for DAO core construction: %w", err)
	}

	daoContract := daorpc.New(d.act, daoHash)

	executedAt, err := daoContract.ExecutedAt(bootstrapHash)
	if err != nil {
		return fmt.Errorf("read execution height of the bootstrap proposal: %w", err)
	}
	if executedAt.Sign() > 0 {
		d.log.Info("DAO core is already constructed, skipping",
			zap.String("executed at", executedAt.String()))
		return nil
	}

	d.log.Info("constructing DAO core...")

	txHash, vub, err := daoContract.Construct(bootstrapHash)
	if err != nil {
		return fmt.Errorf("send construct transaction: %w", err)
	}

	_, err = d.act.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for construct transaction %s: %w", txHash, err)
	}

	d.log.Info("DAO core successfully constructed")

	return nil
}
