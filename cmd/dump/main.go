// Command dump prints state of the Governance contract deployed in a Neo
// blockchain network: the owner, the proposal registry and all vote records.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nicobeiser/onchain-voting/rpc/governance"
)

const (
	ownerKey   = "contractOwner"
	counterKey = "proposalCounter"

	proposalPrefix = 'p'
	votePrefix     = 'v'

	voterLen = util.Uint160Size
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddress := flag.String("contract", "", "LE hex-encoded address of the Governance contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddress == "":
		log.Fatal("missing Governance contract address")
	}

	contractHash, err := util.Uint160DecodeStringLE(*contractAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("decode Governance contract address: %w", err))
	}

	err = _dump(*neoRPCEndpoint, contractHash)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoRPCEndpoint string, contractHash util.Uint160) error {
	b, err := newRemoteBlockchain(neoRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	total, err := governance.NewReader(invoker.New(b.rpc, nil), contractHash).TotalProposals()
	if err != nil {
		return fmt.Errorf("read number of the registered proposals: %w", err)
	}

	fmt.Printf("total proposals: %d\n", total)

	err = b.iterateContractStorage(contractHash, printStorageItem)
	if err != nil {
		return fmt.Errorf("dump storage of the Governance contract: %w", err)
	}

	return nil
}

// printStorageItem renders single storage item of the Governance contract.
// Unknown keys are reported but not treated as an error: they may belong to a
// newer contract version.
func printStorageItem(key, value []byte) error {
	switch {
	case string(key) == ownerKey:
		owner, err := util.Uint160DecodeBytesBE(value)
		if err != nil {
			return fmt.Errorf("decode contract owner: %w", err)
		}

		fmt.Printf("owner: %s\n", owner.StringLE())
	case string(key) == counterKey:
		fmt.Printf("next proposal ID: %d\n", bigint.FromBytes(value))
	case len(key) >= 1 && key[0] == proposalPrefix:
		p, err := decodeProposal(value)
		if err != nil {
			return fmt.Errorf("decode proposal (key %x): %w", key, err)
		}

		fmt.Printf("proposal %d: %q, votes for %d, votes against %d\n",
			p.ID, p.Title, p.VotesFor, p.VotesAgainst)
	case len(key) >= 1+voterLen && key[0] == votePrefix:
		id := bigint.FromBytes(key[1 : len(key)-voterLen])
		voter := key[len(key)-voterLen:]

		fmt.Printf("vote record: proposal %d, voter %s\n", id, base58.Encode(voter))
	default:
		fmt.Printf("unknown storage item (key %x)\n", key)
	}

	return nil
}

func decodeProposal(value []byte) (*governance.GovernanceProposal, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return nil, fmt.Errorf("deserialize stack item: %w", err)
	}

	var p governance.GovernanceProposal

	err = p.FromStackItem(item)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
