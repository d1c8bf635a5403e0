/*
Package gate implements the small-quorum execution gate of the CityDAO
governance suite.

Gate contract lets a fixed set of approver accounts push a proposal through
without a full token-weighted referendum. Each approver signals support for
a specific proposal at most once; when the number of distinct signals
reaches the required threshold, the gate synchronously executes the proposal
through the DAO contract. Counting signals is decoupled from execution:
signals arriving after the threshold simply run into the DAO's at-most-once
guard, so no interleaving of approvers can execute a proposal twice.

The gate is time-boxed by a sunset height. Signals after the sunset are
rejected. The sunset, the approver set and the threshold are themselves
governed parameters, changeable only through an executed proposal or an
enabled extension.

# Contract notifications

Signal notification. Produced on every accepted signal.

	Signal:
	  - name: proposal
	    type: Hash160
	  - name: approver
	    type: Hash160
	  - name: count
	    type: Integer
*/
package gate

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'd' -> interop.Hash160
   DAO contract address
 - 'r' -> int
   required signal threshold
 - 'h' -> int
   sunset height
 - 'a' + interop.Hash160 -> bool
   approver set
 - 's' + proposal + approver -> bool
   per-proposal signal records
 - 'n' + proposal -> int
   distinct signal count per proposal
*/
