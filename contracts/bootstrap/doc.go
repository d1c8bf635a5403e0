/*
Package bootstrap implements the proposal that installs the initial
extension set on a freshly deployed DAO core. The extension hashes are
fixed at deploy time; the DAO core runs this contract once through its
construct method and the core's execution marker keeps it from ever
running again.

# Contract notifications

Contract does not produce notifications.

# Contract storage model

Contract storage has the following in-memory layout:
  - 'd' -> Hash160
    DAO core contract reference
  - 'e' -> std.Serialize([]Hash160)
    extension hashes to enable
*/
package bootstrap
