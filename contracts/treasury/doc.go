/*
Package treasury implements asset custody for the governance suite. The
treasury accepts NEP-17 deposits of explicitly allowed assets and releases
them only on request of an authorized governance contract or of a proposal
the DAO core is currently executing. Each city may point its registry record
at its own treasury instance; the stacking ledger pays rewards from there.

# Contract notifications

Withdraw notification. This notification is produced when assets leave the
treasury.

	Withdraw
	  - name: asset
	    type: Hash160
	  - name: recipient
	    type: Hash160
	  - name: amount
	    type: Integer

SetAllowedAsset notification. This notification is produced when the deposit
allow list changes.

	SetAllowedAsset
	  - name: asset
	    type: Hash160
	  - name: allowed
	    type: Boolean

# Contract storage model

Contract storage has the following in-memory layout:
  - 'd' -> Hash160
    DAO core contract reference
  - 'a' + asset Hash160 -> 1
    deposit allow list membership marker
*/
package treasury
