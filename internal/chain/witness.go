package chain

import (
	"github.com/extend-xyz/spacegrid/common"
)

// witnesses implements common.Witnesses for one instruction: transaction
// signers plus addresses authorized by the executing program.
type witnesses struct {
	program common.Address
	signers map[common.Address]struct{}
	// all makes every address a witness, used for genesis fixtures only.
	all bool
}

func newWitnesses(program common.Address, signers []common.Address) *witnesses {
	w := &witnesses{
		program: program,
		signers: make(map[common.Address]struct{}, len(signers)),
	}
	for i := range signers {
		w.signers[signers[i]] = struct{}{}
	}
	return w
}

func (w *witnesses) CheckWitness(a common.Address) bool {
	if w.all {
		return true
	}
	_, ok := w.signers[a]
	return ok
}

func (w *witnesses) Authorize(disambig byte, seeds ...[]byte) (common.Address, error) {
	addr, err := common.ReconstructAddress(w.program, disambig, seeds...)
	if err != nil {
		return common.Address{}, err
	}
	w.signers[addr] = struct{}{}
	return addr, nil
}
