package extprop

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	daoKey     = 'd'
	targetKey  = 't'
	enabledKey = 'e'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		addrDAO interop.Hash160
		target  interop.Hash160
		enabled bool
	})

	ctx := storage.GetContext()
	storage.Put(ctx, daoKey, args.addrDAO)
	storage.Put(ctx, targetKey, args.target)
	if args.enabled {
		storage.Put(ctx, enabledKey, []byte{1})
	}
}

func Execute() bool {
	ctx := storage.GetReadOnlyContext()
	dao := storage.Get(ctx, daoKey).(interop.Hash160)
	target := storage.Get(ctx, targetKey).(interop.Hash160)
	enabled := storage.Get(ctx, enabledKey) != nil

	contract.Call(dao, "setExtension", contract.All, target, enabled)

	return true
}
