package governance

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nicobeiser/onchain-voting/common"
)

// Proposal groups data of a single governance proposal. ID and Title are
// fixed at creation, only the two tallies change afterwards.
type Proposal struct {
	ID           int
	Title        string
	VotesFor     int
	VotesAgainst int
}

const (
	// ErrNotOwner is thrown when createProposal is invoked without the
	// contract owner's witness.
	ErrNotOwner = "caller is not the contract owner"
	// ErrProposalNotFound is thrown when the referenced proposal ID has
	// never been assigned.
	ErrProposalNotFound = "proposal not found"
	// ErrAlreadyVoted is thrown when the voter already has a vote record
	// for the proposal.
	ErrAlreadyVoted = "already voted on this proposal"
	// ErrMaxProposalsReached is thrown when the proposal ID counter hits
	// its 32-bit limit.
	ErrMaxProposalsReached = "maximum number of proposals reached"
	// ErrVoteOverflow is thrown when a vote tally hits its 32-bit limit.
	ErrVoteOverflow = "vote counter overflow"
	// ErrInvalidVoter is thrown when voter is not a 20-byte script hash.
	ErrInvalidVoter = "invalid voter script hash"
)

const (
	proposalCounterKey = "proposalCounter"

	proposalPrefix = 'p'
	votePrefix     = 'v'

	// Counters are kept within unsigned 32-bit range, NeoVM integers do
	// not wrap on their own.
	maxUint32 = 0xFFFFFFFF
)

// nolint:deadcode,unused
func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}

	storage.Put(ctx, common.OwnerKey, args.owner)

	runtime.Log("governance contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the contract owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	if !common.HasUpdateAccess(ctx) {
		panic("only owner can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("governance contract updated")
}

// CreateProposal registers a new proposal with the given title and zero
// tallies, assigning it the next sequential ID. Can be invoked only by the
// contract owner. The counter never goes back and IDs are never reused, so
// when it reaches the 32-bit limit the method fails and nothing is stored.
//
// Produces ProposalCreated notification.
func CreateProposal(title string) int {
	ctx := storage.GetContext()

	owner := storage.Get(ctx, common.OwnerKey).(interop.Hash160)
	if !runtime.CheckWitness(owner) {
		panic(ErrNotOwner)
	}

	id := totalProposals(ctx)
	if id == maxUint32 {
		panic(ErrMaxProposalsReached)
	}

	p := Proposal{
		ID:           id,
		Title:        title,
		VotesFor:     0,
		VotesAgainst: 0,
	}

	common.SetSerialized(ctx, proposalKey(id), p)
	storage.Put(ctx, proposalCounterKey, id+1)

	runtime.Notify("ProposalCreated", id, title)

	return id
}

// Vote casts the voter's vote on the proposal: for it when support is true,
// against it otherwise. Voter must witness the invocation. Each account may
// vote on each proposal at most once and votes are never retracted. Any
// failed check leaves the proposal and the vote records untouched.
//
// Produces VoteCast notification.
func Vote(voter interop.Hash160, id int, support bool) {
	if len(voter) != interop.Hash160Len {
		panic(ErrInvalidVoter)
	}
	common.CheckWitness(voter)

	ctx := storage.GetContext()

	data := storage.Get(ctx, proposalKey(id))
	if data == nil {
		panic(ErrProposalNotFound)
	}
	p := std.Deserialize(data.([]byte)).(Proposal)

	vKey := voteKey(id, voter)
	if storage.Get(ctx, vKey) != nil {
		panic(ErrAlreadyVoted)
	}

	if support {
		if p.VotesFor == maxUint32 {
			panic(ErrVoteOverflow)
		}
		p.VotesFor = p.VotesFor + 1
	} else {
		if p.VotesAgainst == maxUint32 {
			panic(ErrVoteOverflow)
		}
		p.VotesAgainst = p.VotesAgainst + 1
	}

	common.SetSerialized(ctx, proposalKey(id), p)
	storage.Put(ctx, vKey, true)

	runtime.Notify("VoteCast", id, voter, support)
}

// GetProposal returns the stored proposal by its ID.
func GetProposal(id int) Proposal {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, proposalKey(id))
	if data == nil {
		panic(ErrProposalNotFound)
	}

	return std.Deserialize(data.([]byte)).(Proposal)
}

// TotalProposals returns the number of proposals ever created. It equals the
// ID that the next successful CreateProposal invocation will assign.
func TotalProposals() int {
	ctx := storage.GetReadOnlyContext()
	return totalProposals(ctx)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func totalProposals(ctx storage.Context) int {
	data := storage.Get(ctx, proposalCounterKey)
	if data != nil {
		return data.(int)
	}

	return 0
}

func proposalKey(id int) []byte {
	var idBytes interface{} = id

	return append([]byte{proposalPrefix}, idBytes.([]byte)...)
}

func voteKey(id int, voter interop.Hash160) []byte {
	var idBytes interface{} = id

	key := append([]byte{votePrefix}, idBytes.([]byte)...)
	return append(key, voter...)
}
