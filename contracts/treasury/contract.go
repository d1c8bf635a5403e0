package treasury

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrUnauthorized is thrown when the method caller is neither an
	// authorized governance contract nor the currently executing proposal.
	ErrUnauthorized = "unauthorized caller (code 6000)"
	// ErrAssetNotAllowed is thrown on deposits and withdrawals of an asset
	// that was not explicitly allowed.
	ErrAssetNotAllowed = "asset not allowed (code 6001)"
	// ErrInsufficientBalance is thrown when the withdrawal exceeds the
	// treasury's balance of the asset.
	ErrInsufficientBalance = "insufficient balance (code 6002)"
	// ErrTransferFailed is thrown when the NEP-17 transfer out returns false.
	ErrTransferFailed = "transfer failed (code 6003)"
)

const (
	daoKey      = 'd'
	assetPrefix = 'a'

	balanceOfMethod = "balanceOf"
	transferMethod  = "transfer"
)

// OnNEP17Payment is a callback for incoming NEP-17 transfers. Deposits of
// assets that are not on the allow list are aborted, which also rolls the
// transfer back.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetReadOnlyContext()
	asset := runtime.GetCallingScriptHash()
	if !isAllowed(ctx, asset) {
		common.AbortWithMessage(ErrAssetNotAllowed)
	}
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrDAO interop.Hash160
		assets  []interop.Hash160
	})

	if len(args.addrDAO) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	storage.Put(ctx, daoKey, args.addrDAO)
	for i := range args.assets {
		if len(args.assets[i]) != interop.Hash160Len {
			panic("incorrect length of asset script hash")
		}
		storage.Put(ctx, assetKey(args.assets[i]), []byte{1})
	}

	runtime.Log("treasury contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("treasury contract updated")
}

// Withdraw transfers the asset out of the treasury. It can be invoked only
// by an authorized governance contract or by the currently executing
// proposal; the authorization is checked against the DAO core on every call.
func Withdraw(asset interop.Hash160, amount int, recipient interop.Hash160) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}
	if !isAllowed(ctx, asset) {
		panic(ErrAssetNotAllowed)
	}

	self := runtime.GetExecutingScriptHash()
	balance := contract.Call(asset, balanceOfMethod, contract.ReadOnly, self).(int)
	if amount < 0 || amount > balance {
		panic(ErrInsufficientBalance)
	}

	ok := contract.Call(asset, transferMethod, contract.All,
		self, recipient, amount, nil).(bool)
	if !ok {
		panic(ErrTransferFailed)
	}

	runtime.Notify("Withdraw", asset, recipient, amount)

	return true
}

// SetAllowedAsset adds the asset to or removes it from the deposit allow
// list. It can be invoked only by an authorized governance contract or by
// the currently executing proposal.
func SetAllowedAsset(asset interop.Hash160, allowed bool) {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}
	if len(asset) != interop.Hash160Len {
		panic("incorrect length of asset script hash")
	}

	key := assetKey(asset)
	if allowed {
		storage.Put(ctx, key, []byte{1})
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify("SetAllowedAsset", asset, allowed)
}

// IsAllowedAsset returns true if deposits of the asset are accepted.
func IsAllowedAsset(asset interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isAllowed(ctx, asset)
}

// BalanceOf returns the treasury's balance of the asset.
func BalanceOf(asset interop.Hash160) int {
	self := runtime.GetExecutingScriptHash()
	return contract.Call(asset, balanceOfMethod, contract.ReadOnly, self).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func assetKey(asset interop.Hash160) []byte {
	return append([]byte{assetPrefix}, asset...)
}

func isAllowed(ctx storage.Context, asset interop.Hash160) bool {
	return storage.Get(ctx, assetKey(asset)) != nil
}
