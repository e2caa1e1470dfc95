package service

import (
	"context"
	"errors"
	"testing"

	errorsmod "cosmossdk.io/errors"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"go.uber.org/zap"

	"terra-exec/internal/models"
)

func TestResolveSigner(t *testing.T) {
	key := testPrivKey(t)
	keys := &fakeKeys{keys: map[string]cryptotypes.PrivKey{"default/wallet1": key}}
	svc := NewIdentityService(keys, testCodec(), zap.NewNop())

	signer, err := svc.ResolveSigner(context.Background(), "default", "wallet1", "")
	if err != nil {
		t.Fatalf("ResolveSigner failed: %v", err)
	}

	if signer.Address != testKeyAddress {
		t.Errorf("address = %s, want %s", signer.Address, testKeyAddress)
	}
	if !signer.PubKey.Equals(key.PubKey()) {
		t.Error("public key does not match the private key")
	}
	if len(keys.requests) != 1 || keys.requests[0].seed != nil {
		t.Errorf("empty seed must be passed as absent, got %+v", keys.requests)
	}
}

func TestResolveSignerPassesSeed(t *testing.T) {
	keys := &fakeKeys{keys: map[string]cryptotypes.PrivKey{"default/wallet1": testPrivKey(t)}}
	svc := NewIdentityService(keys, testCodec(), zap.NewNop())

	if _, err := svc.ResolveSigner(context.Background(), "default", "wallet1", "hunter2"); err != nil {
		t.Fatalf("ResolveSigner failed: %v", err)
	}

	seed := keys.requests[0].seed
	if seed == nil || *seed != "hunter2" {
		t.Errorf("seed = %v, want hunter2", seed)
	}
}

func TestResolveSignerErrors(t *testing.T) {
	tests := []struct {
		name string
		keys *fakeKeys
	}{
		{name: "unknown label", keys: &fakeKeys{keys: map[string]cryptotypes.PrivKey{}}},
		{name: "provider error", keys: &fakeKeys{err: errors.New("keyring locked")}},
		{name: "already classified", keys: &fakeKeys{err: errorsmod.Wrap(models.ErrKeyDerivation, "bad mnemonic")}},
		{name: "nil key", keys: &fakeKeys{keys: map[string]cryptotypes.PrivKey{"default/wallet1": nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIdentityService(tt.keys, testCodec(), zap.NewNop())

			_, err := svc.ResolveSigner(context.Background(), "default", "wallet1", "")
			if !errors.Is(err, models.ErrKeyDerivation) {
				t.Errorf("expected ErrKeyDerivation, got %v", err)
			}
		})
	}
}
