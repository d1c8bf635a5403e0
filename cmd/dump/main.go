package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/pkg/util"

	registryrpc "github.com/citydao/citydao-contract/rpc/registry"
)

type contractFlag struct {
	name string
	addr *string
}

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	chainLabel := flag.String("label", "", "Label of the blockchain environment (e.g. 'testnet')")

	contracts := []contractFlag{
		{name: "dao"},
		{name: "gate"},
		{name: "registry"},
		{name: "stacking"},
		{name: "treasury"},
		{name: "bootstrap"},
	}
	for i := range contracts {
		contracts[i].addr = flag.String(contracts[i].name, "",
			fmt.Sprintf("Address of the %s contract (Neo address or hex)", contracts[i].name))
	}

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *chainLabel == "":
		log.Fatal("missing blockchain label")
	}

	const rootDir = "testdata"

	dir := filepath.Join(rootDir, *chainLabel)

	err := os.MkdirAll(dir, 0700)
	if err != nil {
		log.Fatal(fmt.Errorf("create dump dir: %w", err))
	}

	err = _dump(*neoRPCEndpoint, dir, contracts)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("governance contracts are successfully dumped to '%s/'\n", dir)
}

// dumpedContract is the JSON layout of a single contract storage dump.
type dumpedContract struct {
	Name  string       `json:"name"`
	Hash  string       `json:"hash"`
	Block uint32       `json:"block"`
	Items []dumpedItem `json:"items"`
}

type dumpedItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func _dump(neoBlockchainRPCEndpoint, dir string, contracts []contractFlag) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	var dumped int

	for i := range contracts {
		if *contracts[i].addr == "" {
			continue
		}

		h, err := registryrpc.AddressFromRecord(*contracts[i].addr)
		if err != nil {
			return fmt.Errorf("decode address of the '%s' contract: %w", contracts[i].name, err)
		}

		log.Printf("Processing contract '%s'...\n", contracts[i].name)

		err = dumpContract(b, dir, contracts[i].name, h)
		if err != nil {
			return fmt.Errorf("dump '%s' contract storage: %w", contracts[i].name, err)
		}

		dumped++
	}

	if dumped == 0 {
		return fmt.Errorf("no contract addresses specified")
	}

	return nil
}

func dumpContract(from *remoteBlockchain, dir, name string, contract util.Uint160) error {
	d := dumpedContract{
		Name:  name,
		Hash:  contract.StringLE(),
		Block: from.currentBlock,
	}

	err := from.iterateContractStorage(contract, func(key, value []byte) error {
		d.Items = append(d.Items, dumpedItem{
			Key:   base64.StdEncoding.EncodeToString(key),
			Value: base64.StdEncoding.EncodeToString(value),
		})
		return nil
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", " ")
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}

	err = os.WriteFile(filepath.Join(dir, name+".json"), data, 0600)
	if err != nil {
		return fmt.Errorf("write dump file: %w", err)
	}

	return nil
}
