package ledger

import "errors"

// Errors returned by ledger operations. A failed operation never mutates state.
var (
	ErrUnauthorized        = errors.New("ledger: caller is not the owner")
	ErrInsufficientBalance = errors.New("ledger: transfer amount exceeds balance")
	ErrInvalidPolicy       = errors.New("ledger: fee rate plus burn rate exceeds 100%")
	ErrInvalidAmount       = errors.New("ledger: invalid amount")
	ErrInvalidAccount      = errors.New("ledger: invalid account")
	ErrSupplyOverflow      = errors.New("ledger: total supply exceeds 2^256-1")
	ErrCorruptSnapshot     = errors.New("ledger: corrupt snapshot")
)

// Reason returns a short machine label for a ledger error, used for metrics
// and log fields. Unknown errors map to "other".
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidPolicy):
		return "invalid_policy"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, ErrSupplyOverflow):
		return "supply_overflow"
	case errors.Is(err, ErrCorruptSnapshot):
		return "corrupt_snapshot"
	default:
		return "other"
	}
}
