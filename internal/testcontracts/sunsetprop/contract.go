package sunsetprop

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	gateKey   = 'g'
	heightKey = 'h'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		addrGate interop.Hash160
		height   int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, gateKey, args.addrGate)
	storage.Put(ctx, heightKey, args.height)
}

func Execute() bool {
	ctx := storage.GetReadOnlyContext()
	gate := storage.Get(ctx, gateKey).(interop.Hash160)
	height := storage.Get(ctx, heightKey).(int)

	contract.Call(gate, "setSunsetBlockHeight", contract.All, height)

	return true
}
