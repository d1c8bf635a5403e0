package registry

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// AddressFromRecord extracts a script hash from a treasury record. Records
// are written either as a hex-encoded LE script hash or as a base58check
// Neo address; both forms are found in the wild, so both are accepted.
func AddressFromRecord(record string) (util.Uint160, error) {
	h, err := util.Uint160DecodeStringLE(record)
	if err == nil {
		return h, nil
	}

	raw, err := base58.Decode(record)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid address record: %w", err)
	}
	// version byte, 20 bytes of hash, 4 bytes of checksum
	if len(raw) != 25 {
		return util.Uint160{}, errors.New("invalid address record length")
	}

	return util.Uint160DecodeBytesBE(raw[1:21])
}

// AddressesFromRecords extracts script hashes from a set of treasury
// records, in order. The first invalid record makes the whole set invalid.
func AddressesFromRecords(records []string) ([]util.Uint160, error) {
	res := make([]util.Uint160, 0, len(records))
	for i := range records {
		h, err := AddressFromRecord(records[i])
		if err != nil {
			return nil, fmt.Errorf("record #%d: %w", i, err)
		}
		res = append(res, h)
	}

	return res, nil
}
