package noopprop

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	countKey  = 'c'
	heightKey = 'h'
)

func Execute() bool {
	ctx := storage.GetContext()

	count := 0
	if val := storage.Get(ctx, countKey); val != nil {
		count = val.(int)
	}
	storage.Put(ctx, countKey, count+1)
	storage.Put(ctx, heightKey, ledger.CurrentIndex())

	return true
}

func Count() int {
	val := storage.Get(storage.GetReadOnlyContext(), countKey)
	if val == nil {
		return 0
	}
	return val.(int)
}

func LastHeight() int {
	val := storage.Get(storage.GetReadOnlyContext(), heightKey)
	if val == nil {
		return 0
	}
	return val.(int)
}
