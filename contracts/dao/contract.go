package dao

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrUnauthorized is thrown when the calling contract is neither the DAO
	// itself, nor an enabled extension, nor the proposal being executed.
	ErrUnauthorized = "unauthorized caller (code 1000)"
	// ErrAlreadyExecuted is thrown on an execution attempt for a proposal
	// that has an execution height recorded.
	ErrAlreadyExecuted = "proposal already executed (code 1001)"
	// ErrAlreadyConstructed is thrown on a second construct call.
	ErrAlreadyConstructed = "dao already constructed (code 1002)"
)

const (
	extensionPrefix = 'e'
	executedPrefix  = 'x'

	activeProposalKey = 'a'
	constructedKey    = 'c'

	executeMethod = "execute"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("dao contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("dao contract updated")
}

// Construct runs the bootstrap proposal that installs the initial extension
// set. It can be invoked only by committee and only once, before any other
// proposal has been executed. Construct funnels through the same execution
// slot as Execute, so the bootstrap proposal inherits the at-most-once
// guarantee.
func Construct(bootstrap interop.Hash160) {
	if !common.HasUpdateAccess() {
		panic("only committee can construct dao")
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, constructedKey) != nil {
		panic(ErrAlreadyConstructed)
	}

	storage.Put(ctx, constructedKey, true)
	executeProposal(ctx, bootstrap)
	runtime.Log("dao constructed")
}

// Execute runs the given proposal contract exactly once. It can be invoked
// only by an enabled extension; the extension flag is read from the live
// storage state on every call. The execution height is recorded before the
// proposal's own execute entry point is invoked, so re-entrant execution
// attempts fail with ErrAlreadyExecuted.
func Execute(proposal interop.Hash160) bool {
	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	if !isExtension(ctx, caller) {
		panic(ErrUnauthorized)
	}

	return executeProposal(ctx, proposal)
}

func executeProposal(ctx storage.Context, proposal interop.Hash160) bool {
	executedKey := append([]byte{executedPrefix}, proposal...)
	if storage.Get(ctx, executedKey) != nil {
		panic(ErrAlreadyExecuted)
	}

	height := ledger.CurrentIndex()
	storage.Put(ctx, executedKey, height)

	// The proposal may call back into setExtension while it runs.
	storage.Put(ctx, activeProposalKey, proposal)
	result := contract.Call(proposal, executeMethod, contract.All).(bool)
	storage.Delete(ctx, activeProposalKey)

	runtime.Notify("Execute", proposal, height)

	return result
}

// SetExtension enables or disables a single extension. It can be invoked
// only by an enabled extension or by the proposal currently being executed.
// Re-enabling an enabled extension is a no-op, not an error.
func SetExtension(ext interop.Hash160, enabled bool) bool {
	ctx := storage.GetContext()
	checkAuthorized(ctx)
	setExtension(ctx, ext, enabled)

	return true
}

// SetExtensions enables or disables a batch of extensions atomically. Caller
// restrictions are the same as for SetExtension.
func SetExtensions(exts []interop.Hash160, enabled bool) bool {
	ctx := storage.GetContext()
	checkAuthorized(ctx)
	for i := range exts {
		setExtension(ctx, exts[i], enabled)
	}

	return true
}

// IsExtension returns true if the given contract is an enabled extension.
func IsExtension(ext interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isExtension(ctx, ext)
}

// IsAuthorizedCaller is the authorization predicate shared by the whole
// governance suite: it returns true if the given contract is an enabled
// extension or the proposal currently being executed. Protected methods of
// other suite contracts evaluate it on every call.
func IsAuthorizedCaller(caller interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	if isExtension(ctx, caller) {
		return true
	}

	active := storage.Get(ctx, activeProposalKey)
	if active == nil {
		return false
	}

	return caller.Equals(active.(interop.Hash160))
}

// ExecutedAt returns the height at which the given proposal was executed or
// zero if it was not.
func ExecutedAt(proposal interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{executedPrefix}, proposal...))
}

// Extensions returns an iterator over enabled extension addresses.
func Extensions() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{extensionPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkAuthorized(ctx storage.Context) {
	caller := runtime.GetCallingScriptHash()
	if isExtension(ctx, caller) {
		return
	}

	active := storage.Get(ctx, activeProposalKey)
	if active != nil && caller.Equals(active.(interop.Hash160)) {
		return
	}

	panic(ErrUnauthorized)
}

func isExtension(ctx storage.Context, ext interop.Hash160) bool {
	return storage.Get(ctx, append([]byte{extensionPrefix}, ext...)) != nil
}

func setExtension(ctx storage.Context, ext interop.Hash160, enabled bool) {
	key := append([]byte{extensionPrefix}, ext...)
	if enabled {
		storage.Put(ctx, key, true)
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify("SetExtension", ext, enabled)
}
