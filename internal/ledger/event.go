package ledger

import "github.com/ethereum/go-ethereum/common"

// Kind identifies what an Event records.
type Kind int

const (
	KindMint Kind = iota + 1
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindMint:
		return "mint"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a mint or transfer commits.
// Observers run synchronously on the calling goroutine, outside the ledger
// lock, and must not retain Split values they intend to mutate.
type Event struct {
	Kind   Kind
	Caller common.Address
	To     common.Address
	Split  Split
}
