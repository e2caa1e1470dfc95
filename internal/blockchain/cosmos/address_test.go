package cosmos

import (
	"encoding/hex"
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
)

func TestAccountAddress(t *testing.T) {
	// LocalTerra test1
	key, err := hex.DecodeString("da02ede4c818876fe19b5a789f84e8591debd74fd4c134546c9cd7c95e9233a6")
	if err != nil {
		t.Fatalf("failed to decode key: %v", err)
	}
	privKey := &secp256k1.PrivKey{Key: key}

	address, err := NewAddressCodec(TerraBech32Prefix).AccountAddress(privKey.PubKey())
	if err != nil {
		t.Fatalf("AccountAddress failed: %v", err)
	}

	if want := "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v"; address != want {
		t.Errorf("AccountAddress() = %s, want %s", address, want)
	}

	if _, err := NewAddressCodec(TerraBech32Prefix).AccountAddress(nil); err == nil {
		t.Error("expected an error for a nil public key")
	}
}

func TestEncode(t *testing.T) {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = byte(i)
	}

	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "terra", want: "terra1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn9jt6ne"},
		{prefix: "cosmos", want: "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrk363e"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := NewAddressCodec(tt.prefix).Encode(addr)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := NewAddressCodec("terra").Encode(nil); err == nil {
		t.Error("expected an error for empty address bytes")
	}
}

func TestValidateAddress(t *testing.T) {
	codec := NewAddressCodec(TerraBech32Prefix)

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "account", address: "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v"},
		{name: "contract", address: "terra1ejpjr43ht3y56pplm5pxpusmcrk9rkkvna4tklusnnwdxpqm0zlsz74tve"},
		{name: "empty", address: "", wantErr: true},
		{name: "other chain", address: "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrk363e", wantErr: true},
		{name: "bad checksum", address: "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38w", wantErr: true},
		{name: "16 bytes", address: "terra1qqqsyqcyq5rqwzqfpg9scrgwpuuz6h8l", wantErr: true},
		{name: "garbage", address: "terra1abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := codec.ValidateAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}
