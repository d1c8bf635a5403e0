package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetInt returns an integer value from contract storage, zero if the key
// is not set.
func GetInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}

	return 0
}

// AppendIndex appends a fixed-width encoding of the given non-negative
// integer to the key. Composite tuple keys are built from several indexes,
// fixed width keeps neighbouring segments from bleeding into each other.
func AppendIndex(key []byte, index int) []byte {
	b := convert.ToBytes(index)
	for len(b) < 8 {
		b = append(b, 0)
	}

	return append(key, b...)
}
