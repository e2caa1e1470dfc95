package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/go-bip39"

	"terra-exec/internal/models"
)

// ServicePrefix prefixes the keyring service name of every wallet
const ServicePrefix = "terra-exec-"

// Options configures how wallets are opened
type Options struct {
	Backend  string // "os" picks the platform's native store
	Dir      string // file backend directory
	Password string // file backend password, prompted for when empty
	CoinType uint32
}

// Wallet is a named set of mnemonics, one per account label
type Wallet struct {
	name     string
	ring     keyring.Keyring
	coinType uint32
}

// Open opens the wallet called name
func Open(name string, opts Options) (*Wallet, error) {
	if name == "" {
		return nil, fmt.Errorf("wallet name cannot be empty")
	}

	backends, err := allowedBackends(opts.Backend)
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:     ServicePrefix + name,
		AllowedBackends: backends,
		FileDir:         opts.Dir,
		KeychainName:    ServicePrefix + name,
	}
	if opts.Password != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.Password)
	} else {
		cfg.FilePasswordFunc = keyring.TerminalPrompt
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet %s: %w", name, err)
	}

	return New(name, ring, opts.CoinType), nil
}

// New wraps an already opened keyring
func New(name string, ring keyring.Keyring, coinType uint32) *Wallet {
	return &Wallet{
		name:     name,
		ring:     ring,
		coinType: coinType,
	}
}

// Name returns the wallet name
func (w *Wallet) Name() string {
	return w.name
}

// AddKey stores mnemonic under label, replacing any previous key
func (w *Wallet) AddKey(label, mnemonic string) error {
	if label == "" {
		return fmt.Errorf("key label cannot be empty")
	}

	mnemonic = normalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return errorsmod.Wrap(models.ErrKeyDerivation, "invalid mnemonic")
	}

	return w.ring.Set(keyring.Item{
		Key:         label,
		Data:        []byte(mnemonic),
		Label:       fmt.Sprintf("%s key %s", w.name, label),
		Description: "BIP-39 mnemonic",
	})
}

// Labels lists the stored account labels
func (w *Wallet) Labels() ([]string, error) {
	return w.ring.Keys()
}

// PrivateKey derives the secp256k1 key stored under label on the path
// m/44'/<coin type>'/0'/0/0. seed is the optional BIP-39 passphrase.
func (w *Wallet) PrivateKey(label string, seed *string) (cryptotypes.PrivKey, error) {
	item, err := w.ring.Get(label)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, errorsmod.Wrapf(models.ErrKeyDerivation, "no key %s in wallet %s", label, w.name)
		}
		return nil, models.Wrapf(models.ErrKeyDerivation, err, "reading key %s", label)
	}

	mnemonic := normalizeMnemonic(string(item.Data))
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errorsmod.Wrapf(models.ErrKeyDerivation, "key %s does not hold a valid mnemonic", label)
	}

	passphrase := ""
	if seed != nil {
		passphrase = *seed
	}

	hdPath := hd.CreateHDPath(w.coinType, 0, 0).String()
	derived, err := hd.Secp256k1.Derive()(mnemonic, passphrase, hdPath)
	if err != nil {
		return nil, models.Wrapf(models.ErrKeyDerivation, err, "deriving %s", hdPath)
	}

	return hd.Secp256k1.Generate()(derived), nil
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

func allowedBackends(backend string) ([]keyring.BackendType, error) {
	switch backend {
	case "", "os":
		var native []keyring.BackendType
		for _, b := range keyring.AvailableBackends() {
			if b != keyring.FileBackend {
				native = append(native, b)
			}
		}
		return native, nil
	case string(keyring.FileBackend),
		string(keyring.KeychainBackend),
		string(keyring.SecretServiceBackend),
		string(keyring.KWalletBackend),
		string(keyring.PassBackend),
		string(keyring.WinCredBackend),
		string(keyring.KeyCtlBackend):
		return []keyring.BackendType{keyring.BackendType(backend)}, nil
	default:
		return nil, fmt.Errorf("unknown keyring backend %q", backend)
	}
}

// Manager opens wallets by name. It implements service.KeyProvider.
type Manager struct {
	open func(name string) (*Wallet, error)

	mu      sync.Mutex
	wallets map[string]*Wallet
}

// NewManager creates a manager that opens wallets with opts
func NewManager(opts Options) *Manager {
	return &Manager{
		open: func(name string) (*Wallet, error) {
			return Open(name, opts)
		},
		wallets: make(map[string]*Wallet),
	}
}

// NewStaticManager serves only the given wallets
func NewStaticManager(wallets ...*Wallet) *Manager {
	m := &Manager{
		open: func(name string) (*Wallet, error) {
			return nil, fmt.Errorf("wallet %s not found", name)
		},
		wallets: make(map[string]*Wallet),
	}
	for _, w := range wallets {
		m.wallets[w.Name()] = w
	}
	return m
}

// Wallet returns the wallet called name, opening it on first use
func (m *Manager) Wallet(name string) (*Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.wallets[name]; ok {
		return w, nil
	}

	w, err := m.open(name)
	if err != nil {
		return nil, err
	}
	m.wallets[name] = w
	return w, nil
}

// PrivateKey derives the key for label in wallet
func (m *Manager) PrivateKey(_ context.Context, wallet, label string, seed *string) (cryptotypes.PrivKey, error) {
	w, err := m.Wallet(wallet)
	if err != nil {
		return nil, models.Tag(models.ErrKeyDerivation, err)
	}
	return w.PrivateKey(label, seed)
}
