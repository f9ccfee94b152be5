package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// AddressResolver turns a user-supplied name or hex string into an address.
type AddressResolver func(string) (common.Address, error)

// Methods returns the token's method names sorted alphabetically.
func Methods() []string {
	out := make([]string, 0, len(tokenABI.Methods))
	for name := range tokenABI.Methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsRead reports whether method is a view function.
func IsRead(method string) bool {
	m, ok := tokenABI.Methods[method]
	return ok && m.IsConstant()
}

// Signature returns the canonical signature of method, e.g. "mint(address,uint256)".
func Signature(method string) (string, error) {
	m, ok := tokenABI.Methods[method]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return m.Sig, nil
}

// Selector computes the 4-byte selector of a canonical function signature.
func Selector(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// EncodeCall builds calldata for method from string arguments. Integers
// accept decimal or 0x-hex base units. Addresses go through resolve when it
// is non-nil, otherwise they must be hex.
func EncodeCall(method string, args []string, resolve AddressResolver) ([]byte, error) {
	m, ok := tokenABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", m.Sig, len(m.Inputs), len(args))
	}

	vals := make([]interface{}, len(args))
	for i, in := range m.Inputs {
		v, err := parseArg(in.Type, args[i], resolve)
		if err != nil {
			return nil, fmt.Errorf("encoding param %s: %w", in.Name, err)
		}
		vals[i] = v
	}
	return tokenABI.Pack(method, vals...)
}

// DecodeOutputs decodes the return data of method into display strings.
func DecodeOutputs(method string, data []byte) ([]string, error) {
	vals, err := Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", method, err)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatValue(v)
	}
	return out, nil
}

// --- internal ---

func parseArg(typ abi.Type, val string, resolve AddressResolver) (interface{}, error) {
	val = strings.TrimSpace(val)

	switch typ.T {
	case abi.AddressTy:
		if resolve != nil {
			return resolve(val)
		}
		if !common.IsHexAddress(val) {
			return nil, fmt.Errorf("invalid address: %s", val)
		}
		return common.HexToAddress(val), nil

	case abi.UintTy:
		n, ok := new(big.Int).SetString(val, 0)
		if !ok || n.Sign() < 0 {
			return nil, fmt.Errorf("invalid unsigned integer: %s", val)
		}
		if n.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s overflows uint%d", val, typ.Size)
		}
		return n, nil

	case abi.BoolTy:
		switch val {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid bool: %s", val)

	case abi.StringTy:
		return val, nil

	default:
		return nil, fmt.Errorf("unsupported argument type %s", typ.String())
	}
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case *big.Int:
		return x.String()
	case []byte:
		return "0x" + hex.EncodeToString(x)
	default:
		return fmt.Sprint(x)
	}
}
