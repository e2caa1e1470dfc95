package models

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of terra-exec
const Codespace = "terraexec"

var (
	// ErrParse covers malformed coins, gas amounts and JSON payloads
	ErrParse = errorsmod.Register(Codespace, 2, "parse error")
	// ErrGasResolution means no usable gas price could be obtained
	ErrGasResolution = errorsmod.Register(Codespace, 3, "gas resolution failed")
	// ErrKeyDerivation covers wallet, account and seed mismatches
	ErrKeyDerivation = errorsmod.Register(Codespace, 4, "key derivation failed")
	// ErrAddress means an address failed format validation
	ErrAddress = errorsmod.Register(Codespace, 5, "invalid address")
	// ErrSubmission means the chain rejected or failed the transaction
	ErrSubmission = errorsmod.Register(Codespace, 6, "transaction submission failed")
	// ErrFinalityUnknown means the transaction was broadcast but its inclusion
	// could not be confirmed before the deadline. It may still land on chain.
	ErrFinalityUnknown = errorsmod.Register(Codespace, 7, "transaction finality unknown")
	// ErrConfig means the configuration is incomplete or inconsistent
	ErrConfig = errorsmod.Register(Codespace, 8, "invalid configuration")
)

// Wrapf annotates cause and classifies it as kind. Both stay reachable
// through errors.Is and errors.Unwrap, cause first.
func Wrapf(kind, cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), cause, kind)
}

// Tag classifies cause as kind without adding a message
func Tag(kind, cause error) error {
	return fmt.Errorf("%w: %w", cause, kind)
}
