package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type nopBlockchain struct {
	Blockchain
}

func validPrm(t *testing.T) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   nopBlockchain{},
		LocalAccount: acc,
		Owner:        util.Uint160{1, 2, 3},
		Manifest:     manifest.Manifest{Name: "Governance"},
	}
}

func TestDeployPrmValidation(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		err    string
		mutate func(*Prm)
	}{
		{name: "missing logger", err: "missing logger",
			mutate: func(p *Prm) { p.Logger = nil }},
		{name: "missing blockchain", err: "missing blockchain client",
			mutate: func(p *Prm) { p.Blockchain = nil }},
		{name: "missing account", err: "missing local account",
			mutate: func(p *Prm) { p.LocalAccount = nil }},
		{name: "missing owner", err: "missing contract owner",
			mutate: func(p *Prm) { p.Owner = util.Uint160{} }},
		{name: "missing manifest name", err: "invalid contract manifest: missing name",
			mutate: func(p *Prm) { p.Manifest.Name = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prm := validPrm(t)
			tc.mutate(&prm)

			_, err := Deploy(ctx, prm)
			require.ErrorContains(t, err, tc.err)
		})
	}
}
