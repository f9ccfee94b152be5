package contract

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// revertSelector is the 4-byte selector of Error(string).
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var stringArgs = func() abi.Arguments {
	typ, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: typ}}
}()

// RevertError is returned when the ledger rejects a call. It unwraps to the
// ledger error so callers can still use errors.Is.
type RevertError struct {
	Reason string
	err    error
}

func newRevert(err error) *RevertError {
	return &RevertError{Reason: revertReason(err), err: err}
}

func (e *RevertError) Error() string {
	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error { return e.err }

// Data returns the ABI-encoded Error(string) revert payload.
func (e *RevertError) Data() []byte {
	packed, err := stringArgs.Pack(e.Reason)
	if err != nil {
		return append([]byte{}, revertSelector...)
	}
	return append(append([]byte{}, revertSelector...), packed...)
}

// DecodeRevert extracts the reason from Error(string) revert data.
func DecodeRevert(data []byte) (string, error) {
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return "", fmt.Errorf("decoding revert: %w", err)
	}
	return reason, nil
}

// revertReason uses the messages an OpenZeppelin-based token would revert with.
func revertReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return "Ownable: caller is not the owner"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return "ERC20: transfer amount exceeds balance"
	case errors.Is(err, ledger.ErrInvalidAccount):
		return "ERC20: invalid receiver"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid amount"
	case errors.Is(err, ledger.ErrSupplyOverflow):
		return "arithmetic overflow"
	default:
		return err.Error()
	}
}
