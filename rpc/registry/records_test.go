package registry

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAddressFromRecord(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	got, err := AddressFromRecord(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, got)

	got, err = AddressFromRecord(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, got)

	_, err = AddressFromRecord("not a record at all")
	require.Error(t, err)

	_, err = AddressFromRecord("")
	require.Error(t, err)
}

func TestAddressesFromRecords(t *testing.T) {
	h1 := util.Uint160{1}
	h2 := util.Uint160{2}

	got, err := AddressesFromRecords([]string{address.Uint160ToString(h1), h2.StringLE()})
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{h1, h2}, got)

	_, err = AddressesFromRecords([]string{address.Uint160ToString(h1), "bogus"})
	require.Error(t, err)
}
