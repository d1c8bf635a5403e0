package stacking

import (
	"github.com/citydao/citydao-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Stacker is a user's locked-value record for one city and one reward
	// cycle. LockedAmount is the immutable vote weight once the cycle is in
	// the past. Claimable is the principal returned at lock end.
	Stacker struct {
		LockedAmount int
		Claimable    int
		Claimed      bool
	}

	// CycleStats aggregates one city's reward cycle.
	CycleStats struct {
		TotalStacked int
		Payout       int
	}
)

const (
	// ErrUnauthorized is thrown when rewards are deposited by a caller that
	// is neither committee nor an authorized governance contract.
	ErrUnauthorized = "unauthorized caller (code 4000)"
	// ErrInvalidParams is thrown on a zero amount, an unknown city or a
	// lock period outside [1, maxLockPeriod].
	ErrInvalidParams = "invalid stacking parameters (code 4001)"
	// ErrNothingToClaim is thrown when the cycle is not closed yet, the
	// record was already claimed or the claimable share is zero.
	ErrNothingToClaim = "nothing to claim (code 4002)"
	// ErrUserNotFound is thrown when a claim references a principal the
	// registry has never seen.
	ErrUserNotFound = "user not found (code 4003)"
	// ErrNotActive is thrown before the first stacking block.
	ErrNotActive = "stacking not active yet (code 4004)"
)

const (
	daoKey        = 'd'
	registryKey   = 'r'
	treasuryKey   = 't'
	firstBlockKey = 'f'
	cycleLenKey   = 'l'

	stackerPrefix = 's'
	statsPrefix   = 'c'

	// maxLockPeriod bounds a single lock to 32 reward cycles.
	maxLockPeriod = 32

	resolveUserMethod  = "resolveUser"
	userIDMethod       = "getUserID"
	cityCountMethod    = "cityCount"
	cityTreasuryMethod = "getCityTreasury"
	withdrawMethod     = "withdraw"
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
		addrDAO            interop.Hash160
		addrRegistry       interop.Hash160
		addrTreasury       interop.Hash160
		firstStackingBlock int
		cycleLength        int
	})

	if len(args.addrDAO) != interop.Hash160Len ||
		len(args.addrRegistry) != interop.Hash160Len ||
		len(args.addrTreasury) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if args.cycleLength < 1 {
		panic("invalid cycle length")
	}

	storage.Put(ctx, daoKey, args.addrDAO)
	storage.Put(ctx, registryKey, args.addrRegistry)
	storage.Put(ctx, treasuryKey, args.addrTreasury)
	storage.Put(ctx, firstBlockKey, args.firstStackingBlock)
	storage.Put(ctx, cycleLenKey, args.cycleLength)

	runtime.Log("stacking contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("stacking contract updated")
}

// Stack locks amount for the user in the given city for lockPeriod reward
// cycles, starting with the next cycle. Partial cycles carry no weight, so
// the cycle in progress is never touched, and closed cycles can never be
// changed retroactively. The user is registered in the registry on first
// lock. The principal becomes claimable in the last locked cycle.
func Stack(user interop.Hash160, cityID, amount, lockPeriod int) bool {
	common.CheckOwnerWitness(user)

	ctx := storage.GetContext()
	if amount <= 0 || lockPeriod < 1 || lockPeriod > maxLockPeriod {
		panic(ErrInvalidParams)
	}
	checkCity(ctx, cityID)

	registry := storage.Get(ctx, registryKey).(interop.Hash160)
	userID := contract.Call(registry, resolveUserMethod, contract.All, user).(int)

	firstCycle := currentCycle(ctx) + 1
	lastCycle := firstCycle + lockPeriod - 1

	for cycle := firstCycle; cycle <= lastCycle; cycle++ {
		key := stackerKey(cityID, cycle, userID)
		record := getStacker(ctx, key)
		record.LockedAmount += amount
		if cycle == lastCycle {
			record.Claimable += amount
		}
		common.SetSerialized(ctx, key, record)

		statsKey := cycleStatsKey(cityID, cycle)
		stats := getStats(ctx, statsKey)
		stats.TotalStacked += amount
		common.SetSerialized(ctx, statsKey, stats)
	}

	runtime.Notify("Stack", user, cityID, amount, firstCycle, lastCycle)

	return true
}

// DepositRewards funds the payout pool of one city's reward cycle. It can
// be invoked by committee or by an authorized governance contract. The
// assets themselves are expected to sit in the city's treasury.
func DepositRewards(cityID, cycle, amount int) bool {
	ctx := storage.GetContext()
	if !common.IsDAOAuthorized(ctx, daoKey) && !common.HasUpdateAccess() {
		panic(ErrUnauthorized)
	}
	if amount <= 0 {
		panic(ErrInvalidParams)
	}
	checkCity(ctx, cityID)

	statsKey := cycleStatsKey(cityID, cycle)
	stats := getStats(ctx, statsKey)
	stats.Payout += amount
	common.SetSerialized(ctx, statsKey, stats)

	runtime.Notify("DepositRewards", cityID, cycle, amount)

	return true
}

// ClaimStackingReward pays the user their share of the target cycle's
// payout pool plus any principal unlocked in that cycle, from the city's
// treasury. The cycle must be closed. A record is paid at most once; the
// locked amount stays in storage as the cycle's historical vote weight.
func ClaimStackingReward(user interop.Hash160, cityID, targetCycle int) bool {
	common.CheckOwnerWitness(user)

	ctx := storage.GetContext()
	checkCity(ctx, cityID)

	registry := storage.Get(ctx, registryKey).(interop.Hash160)
	userID := contract.Call(registry, userIDMethod, contract.ReadOnly, user).(int)
	if userID == 0 {
		panic(ErrUserNotFound)
	}

	if targetCycle >= currentCycle(ctx) {
		panic(ErrNothingToClaim)
	}

	key := stackerKey(cityID, targetCycle, userID)
	record := getStacker(ctx, key)
	if record.Claimed || record.LockedAmount+record.Claimable == 0 {
		panic(ErrNothingToClaim)
	}

	stats := getStats(ctx, cycleStatsKey(cityID, targetCycle))

	reward := 0
	if stats.Payout > 0 && record.LockedAmount > 0 {
		reward = stats.Payout * record.LockedAmount / stats.TotalStacked
	}

	total := reward + record.Claimable
	if total == 0 {
		panic(ErrNothingToClaim)
	}

	record.Claimable = 0
	record.Claimed = true
	common.SetSerialized(ctx, key, record)

	treasury := cityTreasury(ctx, registry, cityID)
	contract.Call(treasury, withdrawMethod, contract.All,
		interop.Hash160(gas.Hash), total, user)

	runtime.Notify("Claim", user, cityID, targetCycle, total)

	return true
}

// GetStacker returns the locked-value record for (city, cycle, user id).
func GetStacker(cityID, cycle, userID int) Stacker {
	ctx := storage.GetReadOnlyContext()
	return getStacker(ctx, stackerKey(cityID, cycle, userID))
}

// GetStackedAmount returns the locked amount for (city, cycle, user id).
// This is the scalar the voting engine reads as snapshot weight.
func GetStackedAmount(cityID, cycle, userID int) int {
	ctx := storage.GetReadOnlyContext()
	return getStacker(ctx, stackerKey(cityID, cycle, userID)).LockedAmount
}

// GetStackingStats returns the aggregate record of one city's reward cycle.
func GetStackingStats(cityID, cycle int) CycleStats {
	ctx := storage.GetReadOnlyContext()
	return getStats(ctx, cycleStatsKey(cityID, cycle))
}

// GetRewardCycle returns the reward cycle the given height falls into. It
// is a pure floor function of the height and the two deployment constants;
// the voting engine reads cycle boundaries from here so that both contracts
// agree exactly.
func GetRewardCycle(height int) int {
	ctx := storage.GetReadOnlyContext()
	return rewardCycle(ctx, height)
}

// GetCurrentRewardCycle returns the reward cycle of the current height.
func GetCurrentRewardCycle() int {
	ctx := storage.GetReadOnlyContext()
	return currentCycle(ctx)
}

// GetFirstBlockInRewardCycle returns the height at which the given cycle
// begins.
func GetFirstBlockInRewardCycle(cycle int) int {
	ctx := storage.GetReadOnlyContext()
	first := common.GetInt(ctx, firstBlockKey)
	length := common.GetInt(ctx, cycleLenKey)

	return first + cycle*length
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func rewardCycle(ctx storage.Context, height int) int {
	first := common.GetInt(ctx, firstBlockKey)
	if height < first {
		panic(ErrNotActive)
	}

	return (height - first) / common.GetInt(ctx, cycleLenKey)
}

func currentCycle(ctx storage.Context) int {
	return rewardCycle(ctx, ledger.CurrentIndex())
}

func checkCity(ctx storage.Context, cityID int) {
	registry := storage.Get(ctx, registryKey).(interop.Hash160)
	count := contract.Call(registry, cityCountMethod, contract.ReadOnly).(int)
	if cityID < 1 || cityID > count {
		panic(ErrInvalidParams)
	}
}

func cityTreasury(ctx storage.Context, registry interop.Hash160, cityID int) interop.Hash160 {
	treasury := contract.Call(registry, cityTreasuryMethod, contract.ReadOnly, cityID)
	if treasury != nil {
		h := treasury.(interop.Hash160)
		if len(h) == interop.Hash160Len {
			return h
		}
	}

	return storage.Get(ctx, treasuryKey).(interop.Hash160)
}

func stackerKey(cityID, cycle, userID int) []byte {
	key := common.AppendIndex([]byte{stackerPrefix}, cityID)
	key = common.AppendIndex(key, cycle)

	return common.AppendIndex(key, userID)
}

func cycleStatsKey(cityID, cycle int) []byte {
	return common.AppendIndex(common.AppendIndex([]byte{statsPrefix}, cityID), cycle)
}

func getStacker(ctx storage.Context, key []byte) Stacker {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(Stacker)
	}

	return Stacker{}
}

func getStats(ctx storage.Context, key []byte) CycleStats {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(CycleStats)
	}

	return CycleStats{}
}
