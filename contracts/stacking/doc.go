/*
Package stacking implements the stacking ledger of the CityDAO governance
suite.

Stacking contract records, per city and per fixed-length reward cycle, how
much value each user has locked and for how long. Locks always start with
the cycle after the current one, so a cycle's records are frozen the moment
it begins: they are the tamper-resistant weight snapshots the weighted
voting engine reads. Reward cycles are a pure floor function of block
height and the two deployment constants (first stacking block, cycle
length).

Rewards deposited into a cycle's payout pool are distributed pro rata to
locked amounts; the claim additionally returns the principal that unlocked
in that cycle. Both are paid from the city's own treasury, falling back to
the suite default.

# Contract notifications

Stack notification.

	Stack:
	  - name: user
	    type: Hash160
	  - name: cityID
	    type: Integer
	  - name: amount
	    type: Integer
	  - name: firstCycle
	    type: Integer
	  - name: lastCycle
	    type: Integer

DepositRewards notification.

	DepositRewards:
	  - name: cityID
	    type: Integer
	  - name: cycle
	    type: Integer
	  - name: amount
	    type: Integer

Claim notification.

	Claim:
	  - name: user
	    type: Hash160
	  - name: cityID
	    type: Integer
	  - name: cycle
	    type: Integer
	  - name: amount
	    type: Integer
*/
package stacking

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'd', 'r', 't' -> interop.Hash160
   DAO, registry and default treasury contract addresses
 - 'f' -> int
   first stacking block
 - 'l' -> int
   reward cycle length in blocks
 - 's' + <8-byte city id> + <8-byte cycle> + <8-byte user id> -> std.Serialize(Stacker)
   locked-value records
 - 'c' + <8-byte city id> + <8-byte cycle> -> std.Serialize(CycleStats)
   per-cycle totals and payout pools
*/
