package governance_test

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nicobeiser/onchain-voting/common"
	"github.com/nicobeiser/onchain-voting/governance"
	"github.com/stretchr/testify/require"
)

const governancePath = "."

func deployGovernanceContract(t *testing.T, e *neotest.Executor) *neotest.Contract {
	c := neotest.CompileFile(t, e.CommitteeHash, governancePath,
		path.Join(governancePath, "config.yml"))

	args := make([]interface{}, 1)
	args[0] = e.CommitteeHash

	e.DeployContract(t, c, args)
	return c
}

// newGovernanceInvoker deploys the contract with the committee account as its
// owner and returns an invoker on behalf of the owner.
func newGovernanceInvoker(t *testing.T) *neotest.ContractInvoker {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)
	c := deployGovernanceContract(t, e)
	return e.CommitteeInvoker(c.Hash)
}

func proposalFields(t *testing.T, c *neotest.ContractInvoker, id int64) (string, int64, int64) {
	res, err := c.TestInvoke(t, "getProposal", id)
	require.NoError(t, err)

	arr := res.Pop().Array()
	require.Len(t, arr, 4)

	gotID, err := arr[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, id, gotID.Int64())

	title, err := arr[1].TryBytes()
	require.NoError(t, err)

	votesFor, err := arr[2].TryInteger()
	require.NoError(t, err)

	votesAgainst, err := arr[3].TryInteger()
	require.NoError(t, err)

	return string(title), votesFor.Int64(), votesAgainst.Int64()
}

func requireTally(t *testing.T, c *neotest.ContractInvoker, id, votesFor, votesAgainst int64) {
	_, gotFor, gotAgainst := proposalFields(t, c, id)
	require.Equal(t, votesFor, gotFor)
	require.Equal(t, votesAgainst, gotAgainst)
}

func TestDeploy(t *testing.T) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	c := neotest.CompileFile(t, e.CommitteeHash, governancePath,
		path.Join(governancePath, "config.yml"))
	e.DeployContractCheckFAULT(t, c, []interface{}{[]byte{1, 2, 3}},
		"incorrect length of owner script hash")

	e.DeployContract(t, c, []interface{}{e.CommitteeHash})
}

func TestCreateProposal(t *testing.T) {
	c := newGovernanceInvoker(t)

	h := c.Invoke(t, int64(0), "createProposal", "Titulo")

	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)
	require.Equal(t, "ProposalCreated", aer.Events[0].Name)

	items := aer.Events[0].Item.Value().([]stackitem.Item)
	require.Len(t, items, 2)
	id, err := items[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 0, id.Int64())
	title, err := items[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "Titulo", string(title))

	gotTitle, votesFor, votesAgainst := proposalFields(t, c, 0)
	require.Equal(t, "Titulo", gotTitle)
	require.EqualValues(t, 0, votesFor)
	require.EqualValues(t, 0, votesAgainst)

	c.Invoke(t, int64(1), "totalProposals")

	// IDs are sequential and never reused.
	c.Invoke(t, int64(1), "createProposal", "Tema")
	c.Invoke(t, int64(2), "createProposal", "Tema") // duplicate titles are fine
	c.Invoke(t, int64(3), "totalProposals")
}

func TestCreateProposalNotOwner(t *testing.T) {
	c := newGovernanceInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	cAcc.InvokeFail(t, governance.ErrNotOwner, "createProposal", "Tema")

	// failed creation leaves the registry empty
	c.Invoke(t, int64(0), "totalProposals")
	c.InvokeFail(t, governance.ErrProposalNotFound, "getProposal", int64(0))
}

func TestCreateProposalEmptyTitle(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.Invoke(t, int64(0), "createProposal", "")

	title, _, _ := proposalFields(t, c, 0)
	require.Equal(t, "", title)
}

func TestVote(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.Invoke(t, int64(0), "createProposal", "Titulo")

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	h := cAcc.Invoke(t, stackitem.Null{}, "vote", acc.ScriptHash(), int64(0), true)
	requireTally(t, c, 0, 1, 0)

	aer := cAcc.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)
	require.Equal(t, "VoteCast", aer.Events[0].Name)

	items := aer.Events[0].Item.Value().([]stackitem.Item)
	require.Len(t, items, 3)
	id, err := items[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 0, id.Int64())
	voter, err := items[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash().BytesBE(), voter)
	support, err := items[2].TryBool()
	require.NoError(t, err)
	require.True(t, support)

	// distinct voters tally independently
	accAgainst := c.NewAccount(t)
	cAgainst := c.WithSigners(accAgainst)
	cAgainst.Invoke(t, stackitem.Null{}, "vote", accAgainst.ScriptHash(), int64(0), false)
	requireTally(t, c, 0, 1, 1)

	// the owner is an ordinary voter
	c.Invoke(t, stackitem.Null{}, "vote", c.CommitteeHash, int64(0), true)
	requireTally(t, c, 0, 2, 1)
}

func TestVoteAlreadyVoted(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.Invoke(t, int64(0), "createProposal", "Titulo")

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.Invoke(t, stackitem.Null{}, "vote", acc.ScriptHash(), int64(0), true)

	// repeat vote fails whatever the support value is
	cAcc.InvokeFail(t, governance.ErrAlreadyVoted, "vote", acc.ScriptHash(), int64(0), true)
	cAcc.InvokeFail(t, governance.ErrAlreadyVoted, "vote", acc.ScriptHash(), int64(0), false)
	requireTally(t, c, 0, 1, 0)

	// voting on another proposal is still allowed
	c.Invoke(t, int64(1), "createProposal", "Tema")
	cAcc.Invoke(t, stackitem.Null{}, "vote", acc.ScriptHash(), int64(1), false)
	requireTally(t, c, 1, 0, 1)
}

func TestVoteProposalNotFound(t *testing.T) {
	c := newGovernanceInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, governance.ErrProposalNotFound, "vote", acc.ScriptHash(), int64(42), true)

	c.Invoke(t, int64(0), "createProposal", "Titulo")
	cAcc.InvokeFail(t, governance.ErrProposalNotFound, "vote", acc.ScriptHash(), int64(42), true)
	cAcc.InvokeFail(t, governance.ErrProposalNotFound, "vote", acc.ScriptHash(), int64(1), true)
}

func TestVoteWitness(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.Invoke(t, int64(0), "createProposal", "Titulo")

	acc := c.NewAccount(t)
	other := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	// nobody can vote on behalf of another account
	cAcc.InvokeFail(t, common.ErrWitnessFailed, "vote", other.ScriptHash(), int64(0), true)
	cAcc.InvokeFail(t, governance.ErrInvalidVoter, "vote", []byte{1, 2, 3}, int64(0), true)
	requireTally(t, c, 0, 0, 0)
}

func TestGetProposalNotFound(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.InvokeFail(t, governance.ErrProposalNotFound, "getProposal", int64(42))

	c.Invoke(t, int64(0), "createProposal", "Titulo")
	c.InvokeFail(t, governance.ErrProposalNotFound, "getProposal", int64(1))
}

func TestTotalProposals(t *testing.T) {
	c := newGovernanceInvoker(t)

	c.Invoke(t, int64(0), "totalProposals")

	for i := 0; i < 5; i++ {
		c.Invoke(t, int64(i), "createProposal", "Tema")
		c.Invoke(t, int64(i+1), "totalProposals")
	}
}

func TestUpdateAccess(t *testing.T) {
	c := newGovernanceInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	cAcc.InvokeFail(t, "only owner can update contract", "update",
		[]byte{1, 2, 3}, []byte{}, nil)
}

func TestVersion(t *testing.T) {
	c := newGovernanceInvoker(t)
	c.Invoke(t, int64(common.Version), "version")
}
