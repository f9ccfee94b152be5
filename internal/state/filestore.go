// Package state persists ledger snapshots between CLI invocations.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

const formatVersion = 1

// ErrNoState is returned by Load when the state file does not exist yet.
var ErrNoState = errors.New("no ledger state: run `dftcli init` first")

// ErrUnencodable is returned by Save when an amount is outside the uint256
// range the state file stores. The existing file is left untouched.
var ErrUnencodable = errors.New("state: amount out of range")

// Meta describes the token a ledger tracks.
type Meta struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// State is what a FileStore reads and writes.
type State struct {
	Meta      Meta
	Snapshot  *ledger.Snapshot
	UpdatedAt time.Time
}

// FileStore keeps one State in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether a state file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the state file.
func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	var f fileState
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing state %s: %w", s.path, err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported state version %d", f.Version)
	}
	return f.decode()
}

// Save encodes st and replaces the state file atomically.
func (s *FileStore) Save(st *State) error {
	if st == nil || st.Snapshot == nil {
		return errors.New("state: nothing to save")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := encode(st)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// --- wire format ---

type fileState struct {
	Version        int                                      `json:"version"`
	Name           string                                   `json:"name"`
	Symbol         string                                   `json:"symbol"`
	Owner          common.Address                           `json:"owner"`
	FeeBeneficiary common.Address                           `json:"fee_beneficiary"`
	Policy         ledger.Policy                            `json:"policy"`
	TotalSupply    *math.HexOrDecimal256                    `json:"total_supply"`
	Balances       map[common.Address]*math.HexOrDecimal256 `json:"balances"`
	Stats          fileStats                                `json:"stats"`
	UpdatedAt      time.Time                                `json:"updated_at"`
}

type fileStats struct {
	InitialSupply *math.HexOrDecimal256 `json:"initial_supply"`
	Minted        *math.HexOrDecimal256 `json:"minted"`
	Burned        *math.HexOrDecimal256 `json:"burned"`
	FeesCollected *math.HexOrDecimal256 `json:"fees_collected"`
	Mints         uint64                `json:"mints"`
	Transfers     uint64                `json:"transfers"`
}

// encode fails on any amount the uint256 wire format cannot hold, so a
// saved file always loads again.
func encode(st *State) (fileState, error) {
	snap := st.Snapshot
	var bad error
	enc := func(field string, v *big.Int) *math.HexOrDecimal256 {
		if v != nil && (v.Sign() < 0 || v.BitLen() > 256) && bad == nil {
			bad = fmt.Errorf("%w: %s %s does not fit in uint256", ErrUnencodable, field, v)
		}
		return hexOrDec(v)
	}

	balances := make(map[common.Address]*math.HexOrDecimal256, len(snap.Balances))
	for acct, bal := range snap.Balances {
		balances[acct] = enc("balance of "+acct.Hex(), bal)
	}
	updated := st.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	f := fileState{
		Version:        formatVersion,
		Name:           st.Meta.Name,
		Symbol:         st.Meta.Symbol,
		Owner:          snap.Owner,
		FeeBeneficiary: snap.FeeBeneficiary,
		Policy:         snap.Policy,
		TotalSupply:    enc("total supply", snap.TotalSupply),
		Balances:       balances,
		Stats: fileStats{
			InitialSupply: enc("initial supply", snap.Stats.InitialSupply),
			Minted:        enc("minted", snap.Stats.Minted),
			Burned:        enc("burned", snap.Stats.Burned),
			FeesCollected: enc("fees collected", snap.Stats.FeesCollected),
			Mints:         snap.Stats.Mints,
			Transfers:     snap.Stats.Transfers,
		},
		UpdatedAt: updated,
	}
	return f, bad
}

func (f fileState) decode() (*State, error) {
	balances := make(map[common.Address]*big.Int, len(f.Balances))
	for acct, bal := range f.Balances {
		if bal == nil {
			return nil, fmt.Errorf("%w: null balance for %s", ledger.ErrCorruptSnapshot, acct.Hex())
		}
		balances[acct] = toBig(bal)
	}
	return &State{
		Meta: Meta{Name: f.Name, Symbol: f.Symbol},
		Snapshot: &ledger.Snapshot{
			Owner:          f.Owner,
			FeeBeneficiary: f.FeeBeneficiary,
			Policy:         f.Policy,
			TotalSupply:    toBig(f.TotalSupply),
			Balances:       balances,
			Stats: ledger.Stats{
				InitialSupply: toBig(f.Stats.InitialSupply),
				Minted:        toBig(f.Stats.Minted),
				Burned:        toBig(f.Stats.Burned),
				FeesCollected: toBig(f.Stats.FeesCollected),
				Mints:         f.Stats.Mints,
				Transfers:     f.Stats.Transfers,
			},
		},
		UpdatedAt: f.UpdatedAt,
	}, nil
}

func hexOrDec(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// toBig maps a missing field to nil so ledger.Restore can reject it.
func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(v))
}
