package assetprop

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	treasuryKey = 't'
	assetKey    = 'a'
	allowedKey  = 'e'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		addrTreasury interop.Hash160
		asset        interop.Hash160
		allowed      bool
	})

	ctx := storage.GetContext()
	storage.Put(ctx, treasuryKey, args.addrTreasury)
	storage.Put(ctx, assetKey, args.asset)
	if args.allowed {
		storage.Put(ctx, allowedKey, []byte{1})
	}
}

func Execute() bool {
	ctx := storage.GetReadOnlyContext()
	treasury := storage.Get(ctx, treasuryKey).(interop.Hash160)
	asset := storage.Get(ctx, assetKey).(interop.Hash160)
	allowed := storage.Get(ctx, allowedKey) != nil

	contract.Call(treasury, "setAllowedAsset", contract.All, asset, allowed)

	return true
}
