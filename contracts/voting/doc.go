/*
Package voting implements a single-proposal weighted referendum. One instance
of the contract is deployed per proposal; the voting window, snapshot cycle,
tallied cities and share cap are fixed at deploy time and never change.

Vote weight is the voter's locked amount in the stacking ledger for the
snapshot cycle, summed over the tallied cities. Weights are read once, on
the voter's first vote, and stored; a vote reversal moves the stored weights
to the other side without re-reading the ledger, so the sum of both sides
stays constant over any sequence of reversals.

Once the window has ended the referendum can be executed by anyone. It
passes if weighted yes strictly exceeds weighted no and no single city
contributed more than the configured percentage of the yes weight. On
success the proposal is run through the DAO core, which enforces at-most-once
execution across all gates.

# Contract notifications

VoteCast notification. This notification is produced when a vote is cast or
reversed.

	VoteCast
	  - name: voter
	    type: Hash160
	  - name: choice
	    type: Boolean
	  - name: weight
	    type: Integer

# Contract storage model

Contract storage has the following in-memory layout:
  - 'd' -> Hash160
    DAO core contract reference
  - 'r' -> Hash160
    city registry contract reference
  - 's' -> Hash160
    stacking ledger contract reference
  - 'p' -> Hash160
    proposal contract this referendum decides on
  - 'b' -> int
    first block of the voting window
  - 'e' -> int
    first block past the voting window
  - 'o' -> int
    reward cycle the vote weights are snapshotted at
  - 'q' -> int
    maximum percentage of yes weight a single city may hold
  - 'g' -> std.Serialize([]int)
    list of tallied city identifiers
  - 'T' -> std.Serialize(VoteTotals)
    aggregate weights and voter counts of both sides
  - 'C' + city ID -> std.Serialize(CityTotals)
    per-city weights of both sides
  - 'v' + user ID -> std.Serialize(VoterInfo)
    stored ballot with the snapshotted per-city weights
*/
package voting
