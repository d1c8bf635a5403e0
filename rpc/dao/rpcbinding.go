// Package dao contains RPC wrappers for CityDAO Core contract.
package dao

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ExecuteEvent represents "Execute" event emitted by the contract.
type ExecuteEvent struct {
	Proposal util.Uint160
	Height   *big.Int
}

// SetExtensionEvent represents "SetExtension" event emitted by the contract.
type SetExtensionEvent struct {
	Extension util.Uint160
	Enabled   bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
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

// ExecutedAt invokes `executedAt` method of contract.
func (c *ContractReader) ExecutedAt(proposal util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "executedAt", proposal))
}

// Extensions invokes `extensions` method of contract.
func (c *ContractReader) Extensions() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "extensions"))
}

// ExtensionsExpanded is similar to Extensions (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ExtensionsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "extensions", _numOfIteratorItems))
}

// IsAuthorizedCaller invokes `isAuthorizedCaller` method of contract.
func (c *ContractReader) IsAuthorizedCaller(caller util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAuthorizedCaller", caller))
}

// IsExtension invokes `isExtension` method of contract.
func (c *ContractReader) IsExtension(ext util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isExtension", ext))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Construct creates a transaction invoking `construct` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Construct(bootstrap util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "construct", bootstrap)
}

// ConstructTransaction creates a transaction invoking `construct` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ConstructTransaction(bootstrap util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "construct", bootstrap)
}

// ConstructUnsigned creates a transaction invoking `construct` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ConstructUnsigned(bootstrap util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "construct", nil, bootstrap)
}

// Execute creates a transaction invoking `execute` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Execute(proposal util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "execute", proposal)
}

// ExecuteTransaction creates a transaction invoking `execute` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ExecuteTransaction(proposal util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "execute", proposal)
}

// ExecuteUnsigned creates a transaction invoking `execute` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ExecuteUnsigned(proposal util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "execute", nil, proposal)
}

// SetExtension creates a transaction invoking `setExtension` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetExtension(ext util.Uint160, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setExtension", ext, enabled)
}

// SetExtensionTransaction creates a transaction invoking `setExtension` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetExtensionTransaction(ext util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setExtension", ext, enabled)
}

// SetExtensionUnsigned creates a transaction invoking `setExtension` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetExtensionUnsigned(ext util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setExtension", nil, ext, enabled)
}

// SetExtensions creates a transaction invoking `setExtensions` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetExtensions(exts []util.Uint160, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setExtensions", exts, enabled)
}

// SetExtensionsTransaction creates a transaction invoking `setExtensions` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetExtensionsTransaction(exts []util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setExtensions", exts, enabled)
}

// SetExtensionsUnsigned creates a transaction invoking `setExtensions` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetExtensionsUnsigned(exts []util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setExtensions", nil, exts, enabled)
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

// ExecuteEventsFromApplicationLog retrieves a set of all emitted events
// with "Execute" name from the provided [result.ApplicationLog].
func ExecuteEventsFromApplicationLog(log *result.ApplicationLog) ([]*ExecuteEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ExecuteEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Execute" {
				continue
			}
			event := new(ExecuteEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ExecuteEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ExecuteEvent or
// returns an error if it's not possible to do to so.
func (e *ExecuteEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Proposal, err = func(item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Proposal: %w", err)
	}

	index++
	e.Height, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Height: %w", err)
	}

	return nil
}

// SetExtensionEventsFromApplicationLog retrieves a set of all emitted events
// with "SetExtension" name from the provided [result.ApplicationLog].
func SetExtensionEventsFromApplicationLog(log *result.ApplicationLog) ([]*SetExtensionEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SetExtensionEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SetExtension" {
				continue
			}
			event := new(SetExtensionEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SetExtensionEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SetExtensionEvent or
// returns an error if it's not possible to do to so.
func (e *SetExtensionEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Extension, err = func(item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Extension: %w", err)
	}

	index++
	e.Enabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	return nil
}
