package service

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"go.uber.org/zap"

	"terra-exec/internal/models"
)

// KeyProvider derives private keys from named wallets
type KeyProvider interface {
	// PrivateKey returns the key stored under label in wallet. seed is the
	// optional BIP-39 passphrase; nil means none.
	PrivateKey(ctx context.Context, wallet, label string, seed *string) (cryptotypes.PrivKey, error)
}

// AddressCodec converts public keys to account addresses and validates
// addresses of the configured chain.
type AddressCodec interface {
	AccountAddress(pubKey cryptotypes.PubKey) (string, error)
	ValidateAddress(address string) error
}

// IdentityService resolves the signer of a transaction
type IdentityService struct {
	keys   KeyProvider
	codec  AddressCodec
	logger *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(keys KeyProvider, codec AddressCodec, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		keys:   keys,
		codec:  codec,
		logger: logger,
	}
}

// ResolveSigner derives the signer identity for label in wallet. An empty
// seed phrase is treated as absent.
func (s *IdentityService) ResolveSigner(ctx context.Context, wallet, label, seed string) (models.SignerIdentity, error) {
	var seedPtr *string
	if seed != "" {
		seedPtr = &seed
	}

	privKey, err := s.keys.PrivateKey(ctx, wallet, label, seedPtr)
	if err != nil {
		if errors.Is(err, models.ErrKeyDerivation) {
			return models.SignerIdentity{}, errorsmod.Wrapf(err, "resolving %s in wallet %s", label, wallet)
		}
		return models.SignerIdentity{}, models.Wrapf(models.ErrKeyDerivation, err, "resolving %s in wallet %s", label, wallet)
	}
	if privKey == nil {
		return models.SignerIdentity{}, errorsmod.Wrapf(models.ErrKeyDerivation, "wallet %s returned no key for %s", wallet, label)
	}

	pubKey := privKey.PubKey()
	address, err := s.codec.AccountAddress(pubKey)
	if err != nil {
		return models.SignerIdentity{}, models.Wrapf(models.ErrKeyDerivation, err, "deriving account address")
	}

	s.logger.Debug("Resolved signer",
		zap.String("wallet", wallet),
		zap.String("account", label),
		zap.String("address", address))

	return models.SignerIdentity{
		PrivKey: privKey,
		PubKey:  pubKey,
		Address: address,
	}, nil
}
