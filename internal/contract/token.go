// Package contract exposes a ledger through an ERC-20-shaped ABI: calldata
// in, ABI-encoded return data and Transfer logs out, Solidity-style revert
// data on failure.
package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUnknownMethod is returned for calldata whose selector is not in the ABI.
var ErrUnknownMethod = errors.New("contract: unknown method")

// tokenABI is parsed once; the JSON is a compile-time constant.
var tokenABI = mustParseABI(tokenABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("contract: invalid token ABI: %v", err))
	}
	return parsed
}

// ABI returns the token's parsed ABI.
func ABI() abi.ABI { return tokenABI }

// Token dispatches ABI calls onto a ledger.
type Token struct {
	ledger  *ledger.Ledger
	name    string
	symbol  string
	address common.Address
}

// NewToken wraps l. The token address is derived the way a deployment by
// the owner at nonce 0 would derive it, so logs carry a stable emitter.
func NewToken(l *ledger.Ledger, name, symbol string) *Token {
	return &Token{
		ledger:  l,
		name:    name,
		symbol:  symbol,
		address: crypto.CreateAddress(l.Owner(), 0),
	}
}

// Address returns the address used as the emitter of logs.
func (t *Token) Address() common.Address { return t.address }

// Result is the outcome of a successful call.
type Result struct {
	Method     string
	ReturnData []byte
	Logs       []*types.Log
}

// Pack builds calldata for method.
func Pack(method string, args ...interface{}) ([]byte, error) {
	return tokenABI.Pack(method, args...)
}

// Unpack decodes the return data of method.
func Unpack(method string, data []byte) ([]interface{}, error) {
	return tokenABI.Unpack(method, data)
}

// Call executes calldata as if sent by caller. Write methods trust caller;
// use CallSigned when the caller must be proven.
func (t *Token) Call(caller common.Address, calldata []byte) (*Result, error) {
	if len(calldata) < 4 {
		return nil, fmt.Errorf("%w: calldata shorter than a selector", ErrUnknownMethod)
	}
	method, err := tokenABI.MethodById(calldata[:4])
	if err != nil {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMethod, calldata[:4])
	}
	args, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, fmt.Errorf("decoding %s arguments: %w", method.Name, err)
	}

	res := &Result{Method: method.Name}
	var out []interface{}

	switch method.Name {
	case "name":
		out = []interface{}{t.name}
	case "symbol":
		out = []interface{}{t.symbol}
	case "decimals":
		out = []interface{}{uint8(ledger.Decimals)}
	case "totalSupply":
		out = []interface{}{t.ledger.TotalSupply()}
	case "balanceOf":
		out = []interface{}{t.ledger.BalanceOf(args[0].(common.Address))}
	case "owner":
		out = []interface{}{t.ledger.Owner()}
	case "feeBeneficiary":
		out = []interface{}{t.ledger.FeeBeneficiary()}
	case "feeRate":
		out = []interface{}{new(big.Int).SetUint64(uint64(t.ledger.Policy().FeeRateBps))}
	case "burnRate":
		out = []interface{}{new(big.Int).SetUint64(uint64(t.ledger.Policy().BurnRateBps))}
	case "mint":
		to, amount := args[0].(common.Address), args[1].(*big.Int)
		if err := t.ledger.Mint(caller, to, amount); err != nil {
			return nil, newRevert(err)
		}
		res.Logs = []*types.Log{t.transferLog(common.Address{}, to, amount)}
	case "transfer":
		to, amount := args[0].(common.Address), args[1].(*big.Int)
		split, err := t.ledger.Transfer(caller, to, amount)
		if err != nil {
			return nil, newRevert(err)
		}
		res.Logs = t.transferLogs(caller, to, split)
		out = []interface{}{true}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method.Name)
	}

	res.ReturnData, err = method.Outputs.Pack(out...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s result: %w", method.Name, err)
	}
	return res, nil
}

// SignedCall is calldata plus an EIP-191 signature over it by the caller.
type SignedCall struct {
	Calldata  []byte
	Signature []byte
}

// Sign produces a SignedCall for calldata using a signing wallet.
func Sign(w *wallet.Wallet, ks wallet.KeystoreBackend, calldata []byte) (*SignedCall, error) {
	sig, err := wallet.SignMessage(w, ks, calldata)
	if err != nil {
		return nil, err
	}
	return &SignedCall{Calldata: calldata, Signature: sig}, nil
}

// CallSigned recovers the caller from the signature and executes the call.
func (t *Token) CallSigned(sc *SignedCall) (common.Address, *Result, error) {
	caller, err := wallet.VerifyMessage(sc.Calldata, sc.Signature)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("recovering caller: %w", err)
	}
	res, err := t.Call(caller, sc.Calldata)
	return caller, res, err
}

// --- logs ---

// TransferLog is a decoded Transfer event.
type TransferLog struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

// transferLogs mirrors what the token contract emits for one transfer:
// the net movement, then the fee and the burn when they are non-zero.
func (t *Token) transferLogs(from, to common.Address, s ledger.Split) []*types.Log {
	logs := []*types.Log{t.transferLog(from, to, s.Net)}
	if s.Fee.Sign() > 0 {
		logs = append(logs, t.transferLog(from, t.ledger.FeeBeneficiary(), s.Fee))
	}
	if s.Burn.Sign() > 0 {
		logs = append(logs, t.transferLog(from, common.Address{}, s.Burn))
	}
	return logs
}

func (t *Token) transferLog(from, to common.Address, value *big.Int) *types.Log {
	ev := tokenABI.Events["Transfer"]
	data, err := ev.Inputs.NonIndexed().Pack(value)
	if err != nil {
		// value is a non-negative *big.Int produced by the ledger.
		panic(fmt.Sprintf("contract: packing Transfer value: %v", err))
	}
	return &types.Log{
		Address: t.address,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	}
}

// DecodeTransfer parses a Transfer log.
func DecodeTransfer(l *types.Log) (*TransferLog, error) {
	ev := tokenABI.Events["Transfer"]
	if len(l.Topics) != 3 || l.Topics[0] != ev.ID {
		return nil, errors.New("contract: not a Transfer log")
	}
	vals, err := ev.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding Transfer data: %w", err)
	}
	return &TransferLog{
		From:  common.BytesToAddress(l.Topics[1].Bytes()),
		To:    common.BytesToAddress(l.Topics[2].Bytes()),
		Value: vals[0].(*big.Int),
	}, nil
}
