package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const authorizedCallerMethod = "isAuthorizedCaller"

// IsDAOAuthorized reports whether the calling contract is currently allowed
// to mutate protected governance state. The DAO contract address is read
// from the storage slot daoKey of the asking contract. The decision is
// re-derived from the live DAO state on every call: the set of enabled
// extensions and the currently executing proposal change over time, so the
// result must never be cached.
func IsDAOAuthorized(ctx storage.Context, daoKey any) bool {
	caller := runtime.GetCallingScriptHash()
	dao := storage.Get(ctx, daoKey).(interop.Hash160)
	if caller.Equals(dao) {
		return true
	}

	return contract.Call(dao, authorizedCallerMethod, contract.ReadOnly, caller).(bool)
}
