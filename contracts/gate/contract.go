package gate

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrUnauthorized is thrown when a parameter setter is invoked outside
	// of an executed proposal or an enabled extension.
	ErrUnauthorized = "unauthorized caller (code 2000)"
	// ErrNotApprover is thrown when the signalling account is not in the
	// approver set.
	ErrNotApprover = "not an approver (code 2001)"
	// ErrAlreadySignalled is thrown when an approver signals the same
	// proposal twice. The first signal stays counted exactly once.
	ErrAlreadySignalled = "already signalled (code 2002)"
	// ErrSunsetReached is thrown when signalling after the sunset height.
	ErrSunsetReached = "sunset height reached (code 2003)"
	// ErrSunsetInPast is thrown when moving the sunset height to a block
	// that has already been persisted.
	ErrSunsetInPast = "sunset height in the past (code 2004)"
	// ErrInvalidSignals is thrown when the required signal threshold is
	// not a positive number.
	ErrInvalidSignals = "invalid signals required (code 2005)"
)

const (
	daoKey     = 'd'
	signalsKey = 'r'
	sunsetKey  = 'h'

	approverPrefix = 'a'
	signalPrefix   = 's'
	countPrefix    = 'n'

	executeMethod = "execute"
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
		addrDAO         interop.Hash160
		approvers       []interop.Hash160
		signalsRequired int
		sunsetHeight    int
	})

	if len(args.addrDAO) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if args.signalsRequired < 1 {
		panic(ErrInvalidSignals)
	}

	storage.Put(ctx, daoKey, args.addrDAO)
	storage.Put(ctx, signalsKey, args.signalsRequired)
	storage.Put(ctx, sunsetKey, args.sunsetHeight)

	for i := range args.approvers {
		storage.Put(ctx, approverKey(args.approvers[i]), true)
	}

	runtime.Log("gate contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("gate contract updated")
}

// Signal records one approver's support for the proposal and returns the new
// distinct signal count. The approver set is read from live storage, not
// from any cached role. When the count reaches the required threshold, the
// proposal is executed through the DAO in the same transaction; an execution
// failure (for example, the proposal having been executed through the
// weighted voting path) propagates to the signalling approver.
func Signal(approver, proposal interop.Hash160) int {
	common.CheckOwnerWitness(approver)

	ctx := storage.GetContext()
	if storage.Get(ctx, approverKey(approver)) == nil {
		panic(ErrNotApprover)
	}

	sunset := common.GetInt(ctx, sunsetKey)
	if ledger.CurrentIndex() > sunset {
		panic(ErrSunsetReached)
	}

	signalKey := append([]byte{signalPrefix}, proposal...)
	signalKey = append(signalKey, approver...)
	if storage.Get(ctx, signalKey) != nil {
		panic(ErrAlreadySignalled)
	}
	storage.Put(ctx, signalKey, true)

	countKey := append([]byte{countPrefix}, proposal...)
	count := common.GetInt(ctx, countKey) + 1
	storage.Put(ctx, countKey, count)

	runtime.Notify("Signal", proposal, approver, count)

	if count >= common.GetInt(ctx, signalsKey) {
		dao := storage.Get(ctx, daoKey).(interop.Hash160)
		contract.Call(dao, executeMethod, contract.All, proposal)
	}

	return count
}

// SetApprover adds an account to the approver set or removes it. It can be
// invoked only through an executed proposal or by an enabled extension.
func SetApprover(approver interop.Hash160, enabled bool) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}

	key := approverKey(approver)
	if enabled {
		storage.Put(ctx, key, true)
	} else {
		storage.Delete(ctx, key)
	}

	return true
}

// SetSignalsRequired changes the quorum threshold. Caller restrictions are
// the same as for SetApprover.
func SetSignalsRequired(signals int) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}
	if signals < 1 {
		panic(ErrInvalidSignals)
	}

	storage.Put(ctx, signalsKey, signals)

	return true
}

// SetSunsetBlockHeight moves the gate's sunset height. The new height must
// be strictly above the current one. Caller restrictions are the same as for
// SetApprover.
func SetSunsetBlockHeight(height int) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}
	if height <= ledger.CurrentIndex() {
		panic(ErrSunsetInPast)
	}

	storage.Put(ctx, sunsetKey, height)

	return true
}

// HasSignalled returns true if the approver has already signalled the
// proposal.
func HasSignalled(proposal, approver interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	key := append([]byte{signalPrefix}, proposal...)
	key = append(key, approver...)

	return storage.Get(ctx, key) != nil
}

// GetSignalCount returns the number of distinct approvers that have
// signalled the proposal.
func GetSignalCount(proposal interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{countPrefix}, proposal...))
}

// IsApprover returns true if the account is in the approver set.
func IsApprover(approver interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, approverKey(approver)) != nil
}

// GetSignalsRequired returns the quorum threshold.
func GetSignalsRequired() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, signalsKey)
}

// GetSunsetBlockHeight returns the height after which the gate stops
// accepting signals.
func GetSunsetBlockHeight() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, sunsetKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func approverKey(approver interop.Hash160) []byte {
	return append([]byte{approverPrefix}, approver...)
}
