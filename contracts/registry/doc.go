/*
Package registry implements the identity and city registry of the CityDAO
governance suite.

Registry contract maps principals to small dense user ids and city names to
small dense city ids. Ids are assigned once, starting at 1, and are never
reused; the rest of the suite references users and cities by id only. A
city may additionally carry its own treasury contract, giving each
organizational partition an independent custody account.

User registration is open to the principal itself and to authorized
governance contracts acting on its behalf (the stacking ledger registers
stackers on first lock). City creation and treasury binding are governed
actions available only through executed proposals or enabled extensions.

# Contract notifications

Register notification. Produced on first registration of a principal.

	Register:
	  - name: user
	    type: Hash160
	  - name: id
	    type: Integer

NewCity notification. Produced on first registration of a city name.

	NewCity:
	  - name: name
	    type: String
	  - name: id
	    type: Integer
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'd' -> interop.Hash160
   DAO contract address
 - 'k' -> int
   registered user count
 - 'm' -> int
   registered city count
 - 'u' + interop.Hash160 -> int
   user id by principal
 - 'p' + <8-byte id> -> interop.Hash160
   principal by user id
 - 'n' + name -> int
   city id by name
 - 'g' + <8-byte id> -> string
   city name by id
 - 't' + <8-byte id> -> interop.Hash160
   city treasury contract by id
*/
