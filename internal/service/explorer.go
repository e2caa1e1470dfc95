package service

import (
	"fmt"
	"strings"
)

// DefaultTestnetMarkers are chain id substrings that identify test networks
var DefaultTestnetMarkers = []string{"bombay", "pisco"}

// IsTestnet reports whether chainID contains one of the markers
func IsTestnet(chainID string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(chainID, marker) {
			return true
		}
	}
	return false
}

// ExplorerURL returns the explorer link for txHash on the network chainID
// belongs to.
func ExplorerURL(host, chainID string, markers []string, txHash string) string {
	network := "mainnet"
	if IsTestnet(chainID, markers) {
		network = "testnet"
	}
	return fmt.Sprintf("https://%s/%s/tx/%s", host, network, txHash)
}
