// Package registry contains RPC wrappers for CityDAO Registry contract.
package registry

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// RegisterEvent represents "Register" event emitted by the contract.
type RegisterEvent struct {
	User util.Uint160
	ID   *big.Int
}

// NewCityEvent represents "NewCity" event emitted by the contract.
type NewCityEvent struct {
	Name string
	ID   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// CityCount invokes `cityCount` method of contract.
func (c *ContractReader) CityCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "cityCount"))
}

// GetCityID invokes `getCityID` method of contract.
func (c *ContractReader) GetCityID(name string) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getCityID", name))
}

// GetCityName invokes `getCityName` method of contract.
func (c *ContractReader) GetCityName(cityID *big.Int) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "getCityName", cityID))
}

// GetCityTreasury invokes `getCityTreasury` method of contract.
func (c *ContractReader) GetCityTreasury(cityID *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getCityTreasury", cityID))
}

// GetUser invokes `getUser` method of contract.
func (c *ContractReader) GetUser(id *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getUser", id))
}

// GetUserID invokes `getUserID` method of contract.
func (c *ContractReader) GetUserID(user util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getUserID", user))
}

// UserCount invokes `userCount` method of contract.
func (c *ContractReader) UserCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "userCount"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// ResolveCity creates a transaction invoking `resolveCity` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ResolveCity(name string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resolveCity", name)
}

// ResolveCityTransaction creates a transaction invoking `resolveCity` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResolveCityTransaction(name string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resolveCity", name)
}

// ResolveCityUnsigned creates a transaction invoking `resolveCity` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResolveCityUnsigned(name string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resolveCity", nil, name)
}

// ResolveUser creates a transaction invoking `resolveUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ResolveUser(user util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resolveUser", user)
}

// ResolveUserTransaction creates a transaction invoking `resolveUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResolveUserTransaction(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resolveUser", user)
}

// ResolveUserUnsigned creates a transaction invoking `resolveUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResolveUserUnsigned(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resolveUser", nil, user)
}

// SetCityTreasury creates a transaction invoking `setCityTreasury` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetCityTreasury(cityID *big.Int, treasury util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setCityTreasury", cityID, treasury)
}

// SetCityTreasuryTransaction creates a transaction invoking `setCityTreasury` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetCityTreasuryTransaction(cityID *big.Int, treasury util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setCityTreasury", cityID, treasury)
}

// SetCityTreasuryUnsigned creates a transaction invoking `setCityTreasury` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetCityTreasuryUnsigned(cityID *big.Int, treasury util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setCityTreasury", nil, cityID, treasury)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// RegisterEventsFromApplicationLog retrieves a set of all emitted events
// with "Register" name from the provided [result.ApplicationLog].
func RegisterEventsFromApplicationLog(log *result.ApplicationLog) ([]*RegisterEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RegisterEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Register" {
				continue
			}
			event := new(RegisterEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize RegisterEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to RegisterEvent or
// returns an error if it's not possible to do to so.
func (e *RegisterEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.User, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	return nil
}

// NewCityEventsFromApplicationLog retrieves a set of all emitted events
// with "NewCity" name from the provided [result.ApplicationLog].
func NewCityEventsFromApplicationLog(log *result.ApplicationLog) ([]*NewCityEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NewCityEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NewCity" {
				continue
			}
			event := new(NewCityEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NewCityEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NewCityEvent or
// returns an error if it's not possible to do to so.
func (e *NewCityEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Name, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	return nil
}
