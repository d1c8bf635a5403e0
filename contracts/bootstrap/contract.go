package bootstrap

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// ErrNotDAO is thrown when execute is invoked by anyone but the DAO core.
const ErrNotDAO = "caller is not the DAO core (code 7000)"

const (
	daoKey        = 'd'
	extensionsKey = 'e'

	setExtensionsMethod = "setExtensions"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrDAO    interop.Hash160
		extensions []interop.Hash160
	})

	if len(args.addrDAO) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	for i := range args.extensions {
		if len(args.extensions[i]) != interop.Hash160Len {
			panic("incorrect length of extension script hash")
		}
	}

	storage.Put(ctx, daoKey, args.addrDAO)
	common.SetSerialized(ctx, extensionsKey, args.extensions)

	runtime.Log("bootstrap contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bootstrap contract updated")
}

// Execute enables the configured initial extension set on the DAO core. It
// can be invoked only by the DAO core itself while it runs this contract as
// a proposal, so the at-most-once guarantee of the core applies here too.
func Execute() bool {
	ctx := storage.GetReadOnlyContext()

	dao := storage.Get(ctx, daoKey).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(dao) {
		panic(ErrNotDAO)
	}

	contract.Call(dao, setExtensionsMethod, contract.All, extensionList(ctx), true)

	return true
}

// GetExtensions returns the extension set this proposal enables.
func GetExtensions() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return extensionList(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func extensionList(ctx storage.Context) []interop.Hash160 {
	data := storage.Get(ctx, extensionsKey).([]byte)
	return std.Deserialize(data).([]interop.Hash160)
}
