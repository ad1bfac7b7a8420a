/*
Package deploy provides Governance contract deployment routine for Neo
blockchain networks.
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Governance contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns an error with 'Unknown contract'
	// substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups parameters of the Governance contract deployment procedure.
type Prm struct {
	// Writes progress of the procedure.
	Logger *zap.Logger

	// Particular Neo blockchain instance to be used as the contract host.
	Blockchain Blockchain

	// Local process account used for transaction signing, must have GAS to pay
	// deployment fees.
	LocalAccount *wallet.Account

	// Account to become the contract owner with the exclusive right to register
	// proposals.
	Owner util.Uint160

	// Compiled Governance contract.
	NEF      nef.File
	Manifest manifest.Manifest
}

func (x Prm) validate() error {
	switch {
	case x.Logger == nil:
		return errors.New("missing logger")
	case x.Blockchain == nil:
		return errors.New("missing blockchain client")
	case x.LocalAccount == nil:
		return errors.New("missing local account")
	case x.Owner.Equals(util.Uint160{}):
		return errors.New("missing contract owner")
	case x.Manifest.Name == "":
		return errors.New("invalid contract manifest: missing name")
	}

	return nil
}

// Deploy deploys the Governance contract on the Neo blockchain represented by
// given Prm.Blockchain and returns its address. The account specified in
// Prm.Owner becomes the contract owner.
//
// Deploy is idempotent: if the contract with the expected address is already
// present on the chain, its address is returned with no transaction sent.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if err := prm.validate(); err != nil {
		return util.Uint160{}, err
	}

	sender := prm.LocalAccount.Contract.ScriptHash()
	contractAddress := state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
	l := prm.Logger.With(zap.Stringer("address", contractAddress))

	alreadyOnChain, err := isContractOnChain(prm.Blockchain, contractAddress)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("check presence of the Governance contract on the chain: %w", err)
	} else if alreadyOnChain {
		l.Info("Governance contract is already on the chain, skip deployment")
		return contractAddress, nil
	}

	select {
	case <-ctx.Done():
		return util.Uint160{}, fmt.Errorf("wait for deployment start: %w", ctx.Err())
	default:
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender: %w", err)
	}

	l.Info("deploying Governance contract...", zap.Stringer("owner", prm.Owner))

	txHash, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, []any{prm.Owner})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the Governance contract: %w", err)
	}

	res, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s to be accepted: %w", txHash.StringLE(), err)
	}
	if res.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deployment transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	l.Info("Governance contract successfully deployed", zap.Stringer("tx", txHash))

	return contractAddress, nil
}

func isContractOnChain(b Blockchain, addr util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(addr)
	if err != nil {
		if strings.Contains(err.Error(), "Unknown contract") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
