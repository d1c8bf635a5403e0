package tests

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestVersionFile(t *testing.T) {
	data, err := os.ReadFile("../VERSION")
	require.NoError(t, err)

	v := strings.TrimPrefix(string(data), "v")
	parts := strings.Split(strings.TrimSpace(v), ".")
	require.Len(t, parts, 3)

	var ver [3]int
	for i := range parts {
		ver[i], err = strconv.Atoi(parts[i])
		require.NoError(t, err)
	}

	require.Equal(t, common.Version, ver[0]*1_000_000+ver[1]*1_000+ver[2],
		"version from common package is different from the one in VERSION file")
}

func TestContractVersions(t *testing.T) {
	e := newExecutor(t)
	s := deployGovernanceSuite(t, e, 0, 10)

	for _, hash := range []util.Uint160{s.dao, s.gate, s.registry, s.stacking, s.treasury, s.bootstrap} {
		e.CommitteeInvoker(hash).Invoke(t, common.Version, "version")
	}
}
