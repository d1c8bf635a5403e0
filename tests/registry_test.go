package tests

import (
	"strings"
	"testing"

	"github.com/citydao/citydao-contract/contracts/registry"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func TestRegistry_ResolveUser(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.registry)

	alice := c.NewAccount(t)
	bob := c.NewAccount(t)

	// registering somebody else needs their signature
	c.InvokeFail(t, registry.ErrUnauthorized, "resolveUser", alice.ScriptHash())

	cAlice := c.WithSigners(alice)
	cAlice.Invoke(t, stackitem.Make(1), "resolveUser", alice.ScriptHash())

	// ids are stable
	cAlice.Invoke(t, stackitem.Make(1), "resolveUser", alice.ScriptHash())

	c.WithSigners(bob).Invoke(t, stackitem.Make(2), "resolveUser", bob.ScriptHash())

	c.Invoke(t, stackitem.Make(1), "getUserID", alice.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "getUserID", e.CommitteeHash)
	c.Invoke(t, stackitem.NewByteArray(alice.ScriptHash().BytesBE()), "getUser", 1)
	c.Invoke(t, stackitem.Null{}, "getUser", 3)
	c.Invoke(t, stackitem.Make(2), "userCount")
}

func TestRegistry_ResolveCity(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.registry)

	c.Invoke(t, stackitem.Make(1), "resolveCity", "mia")
	c.Invoke(t, stackitem.Make(1), "resolveCity", "mia")
	c.Invoke(t, stackitem.Make(2), "resolveCity", "nyc")
	c.Invoke(t, stackitem.Make(2), "cityCount")

	c.Invoke(t, stackitem.Make(1), "getCityID", "mia")
	c.Invoke(t, stackitem.Make(0), "getCityID", "atl")
	c.Invoke(t, "nyc", "getCityName", 2)
	c.InvokeFail(t, registry.ErrCityNotFound, "getCityName", 3)

	c.InvokeFail(t, registry.ErrInvalidName, "resolveCity", "")
	c.InvokeFail(t, registry.ErrInvalidName, "resolveCity", strings.Repeat("x", 33))

	// creating cities is a governed action
	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, registry.ErrUnauthorized, "resolveCity", "atl")
}

func TestRegistry_CityTreasury(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)
	c := e.CommitteeInvoker(s.registry)

	c.Invoke(t, stackitem.Make(1), "resolveCity", "mia")
	c.Invoke(t, stackitem.Null{}, "getCityTreasury", 1)

	c.Invoke(t, stackitem.NewBool(true), "setCityTreasury", 1, s.treasury)
	c.Invoke(t, stackitem.NewByteArray(s.treasury.BytesBE()), "getCityTreasury", 1)

	c.InvokeFail(t, registry.ErrCityNotFound, "setCityTreasury", 2, s.treasury)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, registry.ErrUnauthorized, "setCityTreasury", 1, s.treasury)
}
