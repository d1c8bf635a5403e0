package tests

import (
	"testing"

	"github.com/citydao/citydao-contract/contracts/treasury"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestTreasury_Deposit(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.treasury)

	gasHash := e.NativeHash(t, nativenames.Gas)
	neoHash := e.NativeHash(t, nativenames.Neo)

	c.Invoke(t, stackitem.NewBool(true), "isAllowedAsset", gasHash)
	c.Invoke(t, stackitem.NewBool(false), "isAllowedAsset", neoHash)

	fundTreasury(t, e, s.treasury)
	require.Positive(t, treasuryBalance(t, e, s.treasury))

	// deposits of assets outside the allow list are aborted
	neoInv := e.CommitteeInvoker(neoHash)
	neoInv.InvokeFail(t, "ABORT", "transfer", e.CommitteeHash, s.treasury, 5, nil)
}

func TestTreasury_AllowAssetViaProposal(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.treasury)

	neoHash := e.NativeHash(t, nativenames.Neo)

	// the allow list is governed
	c.InvokeFail(t, treasury.ErrUnauthorized, "setAllowedAsset", neoHash, true)

	prop := deployAssetProposal(t, e, s.treasury, neoHash, true)
	e.CommitteeInvoker(s.gate).Invoke(t, stackitem.Make(1), "signal", e.CommitteeHash, prop)
	c.Invoke(t, stackitem.NewBool(true), "isAllowedAsset", neoHash)

	neoInv := e.CommitteeInvoker(neoHash)
	neoInv.Invoke(t, stackitem.NewBool(true), "transfer", e.CommitteeHash, s.treasury, 5, nil)
	c.Invoke(t, stackitem.Make(5), "balanceOf", neoHash)
}

func TestTreasury_Withdraw(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.treasury)

	gasHash := e.NativeHash(t, nativenames.Gas)
	fundTreasury(t, e, s.treasury)

	acc := c.NewAccount(t)

	// direct withdrawals are rejected, only the suite may move assets
	c.InvokeFail(t, treasury.ErrUnauthorized, "withdraw", gasHash, 100, acc.ScriptHash())
	c.WithSigners(acc).InvokeFail(t, treasury.ErrUnauthorized, "withdraw", gasHash, 100, acc.ScriptHash())
}
