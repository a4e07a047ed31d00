package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a bridge failure per the recovery strategy it allows.
type ErrorKind string

const (
	// KindConfig covers environment/configuration errors: missing settings,
	// malformed contract addresses, contracts without the expected methods.
	// Fatal at init, never recovered.
	KindConfig ErrorKind = "config"
	// KindWalletAbsent means no wallet session could be reached at all.
	KindWalletAbsent ErrorKind = "wallet_absent"
	// KindWalletLocked means the wallet session exists but is locked / not ready.
	KindWalletLocked ErrorKind = "wallet_locked"
	// KindWalletCapability means the session is up but lacks a required method.
	KindWalletCapability ErrorKind = "wallet_capability"
	// KindWalletNotInjected means the session has no account instance yet.
	KindWalletNotInjected ErrorKind = "wallet_not_injected"
	// KindRequest covers failures of an issued request: user rejection, RPC
	// errors, insufficient funds. Recoverable, operation aborted.
	KindRequest ErrorKind = "request"
	// KindSanity covers integration sanity-check failures such as a malformed
	// transaction id. Treated as configuration/integration errors.
	KindSanity ErrorKind = "sanity"
)

// BridgeError is the bridge's own error type. External SDK failures of any
// shape are normalized into it at the boundary before crossing into internal
// logic.
type BridgeError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// NewBridgeError builds a BridgeError with an optional cause.
func NewBridgeError(kind ErrorKind, message string, cause error) *BridgeError {
	return &BridgeError{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err if it is (or wraps) a BridgeError, and
// KindRequest otherwise: an unclassified failure is treated as a plain
// aborted request.
func KindOf(err error) ErrorKind {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindRequest
}

// NormalizeExternal converts a failure value from an external SDK into a
// BridgeError. Tron node responses in particular report errors either as a raw
// string or as a structured object; both collapse to their message here.
func NormalizeExternal(kind ErrorKind, context string, v interface{}) *BridgeError {
	switch val := v.(type) {
	case nil:
		return NewBridgeError(kind, context, nil)
	case error:
		var be *BridgeError
		if errors.As(val, &be) {
			return be
		}
		return NewBridgeError(kind, context, val)
	case string:
		return NewBridgeError(kind, fmt.Sprintf("%s: %s", context, val), nil)
	case map[string]interface{}:
		if msg, ok := val["message"].(string); ok && msg != "" {
			return NewBridgeError(kind, fmt.Sprintf("%s: %s", context, msg), nil)
		}
		return NewBridgeError(kind, fmt.Sprintf("%s: %v", context, val), nil)
	default:
		return NewBridgeError(kind, fmt.Sprintf("%s: %v", context, val), nil)
	}
}
