package voting

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// CityWeight is one city's share of a voter's snapshot weight.
	CityWeight struct {
		CityID int
		Amount int
	}

	// VoterInfo is the stored ballot of one user. Weights are fetched from
	// the stacking snapshot exactly once, on the first vote; a reversal
	// only re-attributes them, it never re-reads the ledger.
	VoterInfo struct {
		Choice  bool
		Total   int
		Weights []CityWeight
	}

	// VoteTotals aggregates both sides of the referendum.
	VoteTotals struct {
		YesWeight int
		NoWeight  int
		YesCount  int
		NoCount   int
	}

	// CityTotals aggregates both sides within one city.
	CityTotals struct {
		YesWeight int
		NoWeight  int
	}

	// ProposalInfo describes the referendum configuration fixed at deploy.
	ProposalInfo struct {
		Proposal        interop.Hash160
		StartHeight     int
		EndHeight       int
		SnapshotCycle   int
		ShareCapPercent int
		Cities          []int
	}
)

const (
	// ErrUserNotFound is thrown when the voter was never registered.
	ErrUserNotFound = "user not found (code 5001)"
	// ErrProposalNotActive is thrown outside the voting window or once the
	// proposal has been executed.
	ErrProposalNotActive = "proposal not active (code 5002)"
	// ErrNothingStacked is thrown when the voter's snapshot weight across
	// all tallied cities is zero.
	ErrNothingStacked = "nothing stacked in snapshot cycle (code 5003)"
	// ErrVotedAlready is thrown on a repeat vote with the same choice.
	ErrVotedAlready = "already voted this way (code 5004)"
	// ErrVoteFailed is thrown by execute when the referendum did not pass.
	ErrVoteFailed = "vote failed (code 5005)"
)

const (
	daoKey      = 'd'
	registryKey = 'r'
	stackingKey = 's'
	proposalKey = 'p'
	startKey    = 'b'
	endKey      = 'e'
	snapshotKey = 'o'
	citiesKey   = 'g'
	shareCapKey = 'q'
	totalsKey   = 'T'

	voterPrefix = 'v'
	cityPrefix  = 'C'

	executeMethod    = "execute"
	executedAtMethod = "executedAt"
	userIDMethod     = "getUserID"
	rewardCycle      = "getRewardCycle"
	stackedAmount    = "getStackedAmount"
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
		addrDAO             interop.Hash160
		addrRegistry        interop.Hash160
		addrStacking        interop.Hash160
		proposal            interop.Hash160
		windowLength        int
		snapshotCycleOffset int
		cityIDs             []int
		shareCapPercent     int
	})

	if len(args.addrDAO) != interop.Hash160Len ||
		len(args.addrRegistry) != interop.Hash160Len ||
		len(args.addrStacking) != interop.Hash160Len ||
		len(args.proposal) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if args.windowLength < 1 {
		panic("invalid voting window")
	}
	if len(args.cityIDs) == 0 {
		panic("no cities to tally")
	}
	if args.shareCapPercent < 0 || args.shareCapPercent > 100 {
		panic("invalid share cap")
	}

	start := ledger.CurrentIndex()
	snapshot := contract.Call(args.addrStacking, rewardCycle,
		contract.ReadOnly, start).(int) - args.snapshotCycleOffset
	if snapshot < 0 {
		panic("snapshot cycle before first stacking block")
	}

	storage.Put(ctx, daoKey, args.addrDAO)
	storage.Put(ctx, registryKey, args.addrRegistry)
	storage.Put(ctx, stackingKey, args.addrStacking)
	storage.Put(ctx, proposalKey, args.proposal)
	storage.Put(ctx, startKey, start)
	storage.Put(ctx, endKey, start+args.windowLength)
	storage.Put(ctx, snapshotKey, snapshot)
	storage.Put(ctx, shareCapKey, args.shareCapPercent)
	common.SetSerialized(ctx, citiesKey, args.cityIDs)

	runtime.Log("voting contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("voting contract updated")
}

// VoteOnProposal casts or reverses the voter's binary vote. The weight is
// the voter's locked amount in the snapshot cycle, per tallied city, read
// from the stacking ledger on the first vote only. A repeat vote with the
// same choice fails; a repeat vote with the opposite choice atomically
// moves the stored weight to the other side, so total weight across both
// sides is conserved no matter how often voters flip.
func VoteOnProposal(voter interop.Hash160, choice bool) bool {
	common.CheckOwnerWitness(voter)

	ctx := storage.GetContext()

	registry := storage.Get(ctx, registryKey).(interop.Hash160)
	userID := contract.Call(registry, userIDMethod, contract.ReadOnly, voter).(int)
	if userID == 0 {
		panic(ErrUserNotFound)
	}

	if !voteActive(ctx) {
		panic(ErrProposalNotActive)
	}

	voterKey := common.AppendIndex([]byte{voterPrefix}, userID)
	record := getVoter(ctx, voterKey)

	if record.Total == 0 {
		record = snapshotWeights(ctx, userID, choice)
		if record.Total == 0 {
			panic(ErrNothingStacked)
		}

		applyVote(ctx, record, choice, 1)
	} else {
		if record.Choice == choice {
			panic(ErrVotedAlready)
		}

		applyVote(ctx, record, record.Choice, -1)
		record.Choice = choice
		applyVote(ctx, record, choice, 1)
	}

	common.SetSerialized(ctx, voterKey, record)

	runtime.Notify("VoteCast", voter, choice, record.Total)

	return true
}

// Execute closes the referendum and runs the proposal through the DAO. It
// can be invoked by anyone, but only after the voting window has ended, and
// only if weighted yes strictly exceeds weighted no and no single city
// holds more than the configured share of the yes weight.
func Execute() bool {
	ctx := storage.GetContext()

	if ledger.CurrentIndex() < common.GetInt(ctx, endKey) {
		panic(ErrProposalNotActive)
	}

	totals := getTotals(ctx)
	if totals.YesWeight <= totals.NoWeight {
		panic(ErrVoteFailed)
	}

	cap := common.GetInt(ctx, shareCapKey)
	if cap > 0 {
		cities := getCities(ctx)
		for i := range cities {
			city := getCityTotals(ctx, cityTotalsKey(cities[i]))
			if city.YesWeight*100 > totals.YesWeight*cap {
				panic(ErrVoteFailed)
			}
		}
	}

	dao := storage.Get(ctx, daoKey).(interop.Hash160)
	proposal := storage.Get(ctx, proposalKey).(interop.Hash160)

	return contract.Call(dao, executeMethod, contract.All, proposal).(bool)
}

// IsVoteActive returns true while votes are accepted: within the window and
// before the proposal has been executed through any gate.
func IsVoteActive() bool {
	ctx := storage.GetReadOnlyContext()
	return voteActive(ctx)
}

// GetVoteTotals returns the aggregate referendum state.
func GetVoteTotals() VoteTotals {
	ctx := storage.GetReadOnlyContext()
	return getTotals(ctx)
}

// GetCityVoteTotals returns both sides of the tally within one city.
func GetCityVoteTotals(cityID int) CityTotals {
	ctx := storage.GetReadOnlyContext()
	return getCityTotals(ctx, cityTotalsKey(cityID))
}

// GetVoterInfo returns the stored ballot of the user or an empty record if
// the user has not voted.
func GetVoterInfo(userID int) VoterInfo {
	ctx := storage.GetReadOnlyContext()
	return getVoter(ctx, common.AppendIndex([]byte{voterPrefix}, userID))
}

// GetProposalInfo returns the referendum configuration.
func GetProposalInfo() ProposalInfo {
	ctx := storage.GetReadOnlyContext()
	return ProposalInfo{
		Proposal:        storage.Get(ctx, proposalKey).(interop.Hash160),
		StartHeight:     common.GetInt(ctx, startKey),
		EndHeight:       common.GetInt(ctx, endKey),
		SnapshotCycle:   common.GetInt(ctx, snapshotKey),
		ShareCapPercent: common.GetInt(ctx, shareCapKey),
		Cities:          getCities(ctx),
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func voteActive(ctx storage.Context) bool {
	height := ledger.CurrentIndex()
	if height < common.GetInt(ctx, startKey) || height >= common.GetInt(ctx, endKey) {
		return false
	}

	dao := storage.Get(ctx, daoKey).(interop.Hash160)
	proposal := storage.Get(ctx, proposalKey).(interop.Hash160)

	return contract.Call(dao, executedAtMethod, contract.ReadOnly, proposal).(int) == 0
}

// snapshotWeights reads the voter's locked amounts for the snapshot cycle
// from the stacking ledger. This is the only place weight is ever fetched.
func snapshotWeights(ctx storage.Context, userID int, choice bool) VoterInfo {
	stacking := storage.Get(ctx, stackingKey).(interop.Hash160)
	snapshot := common.GetInt(ctx, snapshotKey)
	cities := getCities(ctx)

	record := VoterInfo{Choice: choice, Weights: []CityWeight{}}
	for i := range cities {
		amount := contract.Call(stacking, stackedAmount, contract.ReadOnly,
			cities[i], snapshot, userID).(int)
		if amount == 0 {
			continue
		}

		record.Weights = append(record.Weights, CityWeight{CityID: cities[i], Amount: amount})
		record.Total += amount
	}

	return record
}

// applyVote adds (sign=1) or removes (sign=-1) the record's weights on the
// given side of the aggregate and per-city totals.
func applyVote(ctx storage.Context, record VoterInfo, choice bool, sign int) {
	totals := getTotals(ctx)
	if choice {
		totals.YesWeight += sign * record.Total
		totals.YesCount += sign
	} else {
		totals.NoWeight += sign * record.Total
		totals.NoCount += sign
	}
	common.SetSerialized(ctx, totalsKey, totals)

	for i := range record.Weights {
		key := cityTotalsKey(record.Weights[i].CityID)
		city := getCityTotals(ctx, key)
		if choice {
			city.YesWeight += sign * record.Weights[i].Amount
		} else {
			city.NoWeight += sign * record.Weights[i].Amount
		}
		common.SetSerialized(ctx, key, city)
	}
}

func cityTotalsKey(cityID int) []byte {
	return common.AppendIndex([]byte{cityPrefix}, cityID)
}

func getCities(ctx storage.Context) []int {
	return std.Deserialize(storage.Get(ctx, citiesKey).([]byte)).([]int)
}

func getTotals(ctx storage.Context) VoteTotals {
	data := storage.Get(ctx, totalsKey)
	if data != nil {
		return std.Deserialize(data.([]byte)).(VoteTotals)
	}

	return VoteTotals{}
}

func getCityTotals(ctx storage.Context, key []byte) CityTotals {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(CityTotals)
	}

	return CityTotals{}
}

func getVoter(ctx storage.Context, key []byte) VoterInfo {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(VoterInfo)
	}

	return VoterInfo{Weights: []CityWeight{}}
}
