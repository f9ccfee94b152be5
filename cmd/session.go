package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/state"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/Mohsinsiddi/dftcli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// keystoreOverride replaces the OS keychain when set (tests use an
// in-memory keystore).
var keystoreOverride wallet.KeystoreBackend

// keyringPasswordEnv selects the encrypted file keystore under the config
// dir instead of the OS keychain. Meant for headless machines.
const keyringPasswordEnv = "DFTCLI_KEYRING_PASSWORD"

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	opts := []wallet.Option{wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath()))}
	switch pass := os.Getenv(keyringPasswordEnv); {
	case keystoreOverride != nil:
		opts = append(opts, wallet.WithKeystore(keystoreOverride))
	case pass != "":
		ks, err := wallet.NewFileKeystore(cfg.KeysDir(), func(string) (string, error) { return pass, nil })
		if err != nil {
			logger.Warn("file keystore unavailable, using OS keychain", zap.Error(err))
			break
		}
		opts = append(opts, wallet.WithKeystore(ks))
	}
	return wallet.NewManager(opts...)
}

// session is one command's view of the persisted ledger.
type session struct {
	store   *state.FileStore
	state   *state.State
	ledger  *ledger.Ledger
	token   *contract.Token
	wallets *wallet.Manager
	unlock  func()
}

// errLedgerBusy is returned when another dftcli process holds the state lock
// for longer than lockTimeout.
var errLedgerBusy = errors.New("ledger is busy: another dftcli command is changing it")

var (
	lockTimeout    = 10 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// lockState takes the exclusive cross-process lock guarding the state file.
// Call the returned func to release it.
func lockState() (func(), error) {
	if err := os.MkdirAll(cfg.Dir(), 0o700); err != nil {
		return nil, err
	}
	fl := flock.New(cfg.LockPath())
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if !ok {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w (lock %s)", errLedgerBusy, fl.Path())
		}
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
	}
	logger.Debug("state locked", zap.String("lock", fl.Path()))
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.Warn("releasing state lock", zap.Error(err))
		}
	}, nil
}

// openWriteSession is openSession for commands that commit. The state lock
// is held from before the load until close, so concurrent writers apply
// their changes one after another instead of overwriting each other.
func openWriteSession(opts ...ledger.Option) (*session, error) {
	unlock, err := lockState()
	if err != nil {
		return nil, err
	}
	s, err := openSession(opts...)
	if err != nil {
		unlock()
		return nil, err
	}
	s.unlock = unlock
	return s, nil
}

// close releases the state lock of a write session. It is a no-op for read
// sessions and safe to call twice.
func (s *session) close() {
	if s.unlock != nil {
		s.unlock()
		s.unlock = nil
	}
}

// openSession loads the ledger from the state file.
func openSession(opts ...ledger.Option) (*session, error) {
	store := state.NewFileStore(cfg.StatePath())
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	l, err := ledger.Restore(st.Snapshot, append([]ledger.Option{ledger.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", store.Path(), err)
	}
	return &session{
		store:   store,
		state:   st,
		ledger:  l,
		token:   contract.NewToken(l, st.Meta.Name, st.Meta.Symbol),
		wallets: newWalletManager(),
	}, nil
}

// commit writes the ledger back to the state file.
func (s *session) commit() error {
	s.state.Snapshot = s.ledger.Snapshot()
	s.state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(s.state); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (s *session) symbol() string { return s.state.Meta.Symbol }

// amount formats base units as whole tokens with the symbol.
func (s *session) amount(v *big.Int) string {
	return units.FormatUnits(v, ledger.Decimals) + " " + s.symbol()
}

// label returns the wallet name for an account, or its short address.
func (s *session) label(a common.Address) string {
	if a == (common.Address{}) {
		return "burn (0x0)"
	}
	if name := s.wallets.NameOf(a); name != "" {
		return name
	}
	return ui.TruncateAddr(a.Hex())
}

// resolve turns a wallet name or hex address into an account.
func (s *session) resolve(nameOrAddress string) (common.Address, error) {
	return s.wallets.Resolve(nameOrAddress)
}

// execute signs calldata with w and runs it against the token. The caller
// is whatever address the signature recovers to.
func (s *session) execute(w *wallet.Wallet, calldata []byte) (*contract.Result, error) {
	sc, err := contract.Sign(w, s.wallets.Keystore(), calldata)
	if err != nil {
		return nil, err
	}
	caller, res, err := s.token.CallSigned(sc)
	if err != nil {
		return nil, err
	}
	if caller != w.Account() {
		return nil, fmt.Errorf("signature recovered %s, expected %s", caller.Hex(), w.Address)
	}
	return res, nil
}

// loadSigningWallet loads a wallet by name and verifies it can sign.
// An empty name falls back to the default wallet.
func loadSigningWallet(mgr *wallet.Manager, walletName string) (*wallet.Wallet, error) {
	if walletName == "" {
		walletName = cfg.DefaultWallet
	}
	if walletName == "" {
		if d := mgr.Default(); d != nil {
			walletName = d.Name
		}
	}
	if walletName == "" {
		return nil, errors.New("no wallet selected: pass --from or set a default with `dftcli wallet use <name>`")
	}
	w, err := mgr.Get(walletName)
	if err != nil {
		return nil, fmt.Errorf(
			"wallet %q not found: run `dftcli wallet list` or set a default with `dftcli wallet use <name>`",
			walletName,
		)
	}
	if !w.CanSign() {
		return nil, fmt.Errorf(
			"wallet %q is watch-only and cannot sign\n  To add a signing wallet: dftcli wallet add <name> --key <private-key>",
			walletName,
		)
	}
	return w, nil
}

// parseAmount reads a whole-token amount ("1.5", "1_000") into base units.
func parseAmount(s string) (*big.Int, error) {
	v, err := units.ParseUnits(s, ledger.Decimals)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", s, err)
	}
	return v, nil
}

// errorLine renders an error for the terminal, surfacing revert reasons.
func errorLine(err error) string {
	var rev *contract.RevertError
	if errors.As(err, &rev) {
		return ui.Err("reverted: " + rev.Reason)
	}
	return ui.Err(strings.TrimPrefix(err.Error(), "ledger: "))
}
