package tronwallet

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

// Tron address raw bytes: 21 bytes, first byte 0x41, then the 20-byte account.
const tronAddressPrefix = 0x41

// AddressToHex converts a Tron base58check address (T...) to the EVM-style
// 0x-prefixed 20-byte hex form, verifying the double-sha256 checksum. Used
// once at startup for the configured contract address; a failure there is a
// fatal configuration error.
func AddressToHex(addr string) (string, error) {
	raw := base58.Decode(addr)
	if len(raw) < 4+21 {
		return "", fmt.Errorf("invalid tron base58 address %q", addr)
	}
	payload := raw[:len(raw)-4]
	checksum := raw[len(raw)-4:]

	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	if !bytes.Equal(checksum, h2[:4]) {
		return "", fmt.Errorf("invalid checksum in tron address %q", addr)
	}
	if len(payload) != 21 || payload[0] != tronAddressPrefix {
		return "", fmt.Errorf("invalid tron address payload in %q", addr)
	}
	return "0x" + strings.ToLower(hex.EncodeToString(payload[1:])), nil
}
