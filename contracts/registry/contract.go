package registry

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrUnauthorized is thrown when a registration is attempted neither by
	// the principal itself nor by an authorized governance contract.
	ErrUnauthorized = "unauthorized caller (code 3000)"
	// ErrInvalidName is thrown when a city name is empty or too long.
	ErrInvalidName = "invalid city name (code 3001)"
	// ErrCityNotFound is thrown when the referenced city id was never
	// assigned.
	ErrCityNotFound = "city not found (code 3002)"
)

const (
	daoKey       = 'd'
	userCountKey = 'k'
	cityCountKey = 'm'

	userIDPrefix       = 'u'
	userPrefix         = 'p'
	cityIDPrefix       = 'n'
	cityNamePrefix     = 'g'
	cityTreasuryPrefix = 't'

	maxCityNameLen = 32
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
		addrDAO interop.Hash160
	})

	if len(args.addrDAO) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	storage.Put(ctx, daoKey, args.addrDAO)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// ResolveUser returns the user id of the given principal, assigning the next
// dense id on first sight. Ids start at 1 and are never reassigned. It can
// be invoked by the principal itself or by an authorized governance
// contract on the principal's behalf.
func ResolveUser(user interop.Hash160) int {
	ctx := storage.GetContext()
	if !runtime.CheckWitness(user) && !common.IsDAOAuthorized(ctx, daoKey) {
		panic(ErrUnauthorized)
	}

	idKey := append([]byte{userIDPrefix}, user...)
	if id := storage.Get(ctx, idKey); id != nil {
		return id.(int)
	}

	id := common.GetInt(ctx, userCountKey) + 1
	storage.Put(ctx, userCountKey, id)
	storage.Put(ctx, idKey, id)
	storage.Put(ctx, common.AppendIndex([]byte{userPrefix}, id), user)

	runtime.Notify("Register", user, id)

	return id
}

// ResolveCity returns the city id for the given name, assigning the next
// dense id on first sight. Creating cities is a governed action: it can be
// invoked through an executed proposal, by an enabled extension or by
// committee.
func ResolveCity(name string) int {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) && !common.HasUpdateAccess() {
		panic(ErrUnauthorized)
	}
	if len(name) == 0 || len(name) > maxCityNameLen {
		panic(ErrInvalidName)
	}

	idKey := append([]byte{cityIDPrefix}, []byte(name)...)
	if id := storage.Get(ctx, idKey); id != nil {
		return id.(int)
	}

	id := common.GetInt(ctx, cityCountKey) + 1
	storage.Put(ctx, cityCountKey, id)
	storage.Put(ctx, idKey, id)
	storage.Put(ctx, common.AppendIndex([]byte{cityNamePrefix}, id), name)

	runtime.Notify("NewCity", name, id)

	return id
}

// SetCityTreasury binds a treasury contract to the city, giving the city its
// own custody account. Caller restrictions are the same as for ResolveCity.
func SetCityTreasury(cityID int, treasury interop.Hash160) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) && !common.HasUpdateAccess() {
		panic(ErrUnauthorized)
	}
	checkCity(ctx, cityID)

	storage.Put(ctx, common.AppendIndex([]byte{cityTreasuryPrefix}, cityID), treasury)

	return true
}

// GetUserID returns the id of the principal or zero if it was never
// registered.
func GetUserID(user interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{userIDPrefix}, user...))
}

// GetUser returns the principal with the given id or nil.
func GetUser(id int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, common.AppendIndex([]byte{userPrefix}, id))
	if data == nil {
		return nil
	}

	return data.(interop.Hash160)
}

// GetCityID returns the id of the named city or zero.
func GetCityID(name string) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{cityIDPrefix}, []byte(name)...))
}

// GetCityName returns the name of the city with the given id.
func GetCityName(cityID int) string {
	ctx := storage.GetReadOnlyContext()
	checkCity(ctx, cityID)

	return storage.Get(ctx, common.AppendIndex([]byte{cityNamePrefix}, cityID)).(string)
}

// GetCityTreasury returns the treasury contract bound to the city or nil.
func GetCityTreasury(cityID int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	checkCity(ctx, cityID)

	data := storage.Get(ctx, common.AppendIndex([]byte{cityTreasuryPrefix}, cityID))
	if data == nil {
		return nil
	}

	return data.(interop.Hash160)
}

// UserCount returns the number of registered principals.
func UserCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, userCountKey)
}

// CityCount returns the number of registered cities.
func CityCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, cityCountKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkCity(ctx storage.Context, cityID int) {
	if cityID < 1 || cityID > common.GetInt(ctx, cityCountKey) {
		panic(ErrCityNotFound)
	}
}
