package cosmos

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

const (
	// TerraBech32Prefix is the account address prefix of Terra
	TerraBech32Prefix = "terra"
	// TerraCoinType is the SLIP-44 coin type of Terra
	TerraCoinType = 330
)

// AddressCodec encodes and validates bech32 account addresses for one prefix.
// Both 20 byte account addresses and 32 byte contract addresses are accepted.
type AddressCodec struct {
	prefix string
}

// NewAddressCodec creates an address codec for prefix
func NewAddressCodec(prefix string) AddressCodec {
	return AddressCodec{prefix: prefix}
}

// Prefix returns the bech32 human readable part
func (c AddressCodec) Prefix() string {
	return c.prefix
}

// AccountAddress returns the bech32 account address of pubKey
func (c AddressCodec) AccountAddress(pubKey cryptotypes.PubKey) (string, error) {
	if pubKey == nil {
		return "", fmt.Errorf("public key cannot be nil")
	}
	return c.Encode(pubKey.Address())
}

// Encode converts raw address bytes to bech32
func (c AddressCodec) Encode(addr []byte) (string, error) {
	if len(addr) == 0 {
		return "", fmt.Errorf("address bytes cannot be empty")
	}

	conv, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert bits for bech32: %w", err)
	}

	address, err := bech32.Encode(c.prefix, conv)
	if err != nil {
		return "", fmt.Errorf("failed to encode bech32 address: %w", err)
	}

	return address, nil
}

// ValidateAddress checks that address is bech32 with the codec's prefix and
// decodes to 20 or 32 bytes.
func (c AddressCodec) ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	hrp, data5bit, err := bech32.Decode(address)
	if err != nil {
		return fmt.Errorf("failed to decode bech32 address: %w", err)
	}
	if hrp != c.prefix {
		return fmt.Errorf("address prefix is %q, want %q", hrp, c.prefix)
	}

	data8bit, err := bech32.ConvertBits(data5bit, 5, 8, false)
	if err != nil {
		return fmt.Errorf("failed to convert address bits: %w", err)
	}

	switch len(data8bit) {
	case 20, 32:
		return nil
	default:
		return fmt.Errorf("address is %d bytes, want 20 or 32", len(data8bit))
	}
}
