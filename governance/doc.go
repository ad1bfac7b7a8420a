/*
Package governance contains implementation of Governance contract deployed
in Neo blockchain.

Governance contract is an owner-gated proposal registry with one-vote-per-
account tallying. The account passed to _deploy becomes the contract owner
and is the only one allowed to register proposals. Proposals get sequential
32-bit IDs starting from zero, carry an immutable title and two tallies.
Any account may vote on any existing proposal, for or against, but only
once: a per-(proposal, voter) record makes repeat votes fail. Votes are
never retracted and proposals are never closed or deleted.

All counters follow unsigned 32-bit semantics of the registry: instead of
wrapping around, an increment that would not fit aborts the invocation and
no state of that invocation survives.

# Contract notifications

ProposalCreated notification. This notification is produced when a new
proposal is registered. Fields:
  - id (Integer)
  - title (String)

VoteCast notification. This notification is produced when an account
successfully votes on a proposal. Fields:
  - proposalID (Integer)
  - voter (Hash160)
  - support (Boolean)
*/
package governance

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'contractOwner' -> Hash160
   script hash of the contract owner
 - 'proposalCounter' -> int
   ID to be assigned to the next registered proposal, equals the number of
   proposals registered so far
 - 'p' + <id> -> std.Serialize(Proposal)
   registered proposals by their IDs
 - 'v' + <id> + <voter> -> bool
   one-shot vote records, presence means the account already voted

# Proposals
Contract stores all proposals ever registered, none of them is ever removed
or closed. Only the two tallies of a stored proposal change over time.
*/
