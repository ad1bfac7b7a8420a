// Package governance contains RPC wrappers for Governance contract.
package governance

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// GovernanceProposal is a contract-specific governance.Proposal type used by its methods.
type GovernanceProposal struct {
	ID           *big.Int
	Title        string
	VotesFor     *big.Int
	VotesAgainst *big.Int
}

// ProposalCreatedEvent represents "ProposalCreated" event emitted by the contract.
type ProposalCreatedEvent struct {
	ID    *big.Int
	Title string
}

// VoteCastEvent represents "VoteCast" event emitted by the contract.
type VoteCastEvent struct {
	ProposalID *big.Int
	Voter      util.Uint160
	Support    bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetProposal invokes `getProposal` method of contract.
func (c *ContractReader) GetProposal(id *big.Int) (*GovernanceProposal, error) {
	return itemToGovernanceProposal(unwrap.Item(c.invoker.Call(c.hash, "getProposal", id)))
}

// TotalProposals invokes `totalProposals` method of contract.
func (c *ContractReader) TotalProposals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalProposals"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateProposal creates a transaction invoking `createProposal` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateProposal(title string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createProposal", title)
}

// CreateProposalTransaction creates a transaction invoking `createProposal` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateProposalTransaction(title string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createProposal", title)
}

// CreateProposalUnsigned creates a transaction invoking `createProposal` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateProposalUnsigned(title string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createProposal", nil, title)
}

// Vote creates a transaction invoking `vote` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Vote(voter util.Uint160, id *big.Int, support bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "vote", voter, id, support)
}

// VoteTransaction creates a transaction invoking `vote` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) VoteTransaction(voter util.Uint160, id *big.Int, support bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "vote", voter, id, support)
}

// VoteUnsigned creates a transaction invoking `vote` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) VoteUnsigned(voter util.Uint160, id *big.Int, support bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "vote", nil, voter, id, support)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

func itemToGovernanceProposal(item stackitem.Item, err error) (*GovernanceProposal, error) {
	if err != nil {
		return nil, err
	}
	var res = new(GovernanceProposal)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem converts provided [stackitem.Item] to GovernanceProposal or
// returns an error if it's not possible to do to so.
func (res *GovernanceProposal) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Title, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.VotesFor, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field VotesFor: %w", err)
	}

	index++
	res.VotesAgainst, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field VotesAgainst: %w", err)
	}

	return nil
}

// ProposalCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ProposalCreated" name from the provided [result.ApplicationLog].
func ProposalCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProposalCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProposalCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ProposalCreated" {
				continue
			}
			event := new(ProposalCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProposalCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProposalCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *ProposalCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Title, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	return nil
}

// VoteCastEventsFromApplicationLog retrieves a set of all emitted events
// with "VoteCast" name from the provided [result.ApplicationLog].
func VoteCastEventsFromApplicationLog(log *result.ApplicationLog) ([]*VoteCastEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*VoteCastEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "VoteCast" {
				continue
			}
			event := new(VoteCastEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize VoteCastEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to VoteCastEvent or
// returns an error if it's not possible to do to so.
func (e *VoteCastEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.ProposalID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProposalID: %w", err)
	}

	index++
	e.Voter, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Voter: %w", err)
	}

	index++
	e.Support, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Support: %w", err)
	}

	return nil
}
