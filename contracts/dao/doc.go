/*
Package dao implements the root contract of the CityDAO governance suite.

DAO contract is the proposal executor and the extension registry. A proposal
is a contract with a single `execute` method; DAO guarantees that any given
proposal is executed at most once by recording the execution height before
the proposal runs. Extensions are contracts that, while enabled, act with
the authority of the organization itself: they may execute proposals and
mutate protected state of the other suite contracts. The enabled flag is
checked against live storage on every privileged call, never cached, since
enabling and disabling extensions is itself a governed action.

Construct installs the initial extension set by running the bootstrap
proposal through the common execution slot, so the bootstrap inherits the
at-most-once guarantee and can never be replayed.

# Contract notifications

Execute notification. Produced on every successful proposal execution.

	Execute:
	  - name: proposal
	    type: Hash160
	  - name: height
	    type: Integer

SetExtension notification. Produced on every extension flag write, including
idempotent re-writes.

	SetExtension:
	  - name: extension
	    type: Hash160
	  - name: enabled
	    type: Boolean
*/
package dao

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'e' + interop.Hash160 -> bool
   enabled extensions
 - 'x' + interop.Hash160 -> int
   execution height per executed proposal
 - 'a' -> interop.Hash160
   proposal being executed right now, present only within an execute call
 - 'c' -> bool
   set once the bootstrap proposal has run
*/
