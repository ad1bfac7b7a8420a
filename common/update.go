package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// HasUpdateAccess returns true if the contract can be updated, which requires
// a witness of the owner recorded at deployment.
func HasUpdateAccess(ctx storage.Context) bool {
	owner := storage.Get(ctx, OwnerKey)
	if owner == nil {
		return false
	}

	return runtime.CheckWitness(owner.(interop.Hash160))
}
