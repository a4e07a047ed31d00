package entity

// ConnectionResult describes the outcome of one successful connect attempt.
// It is created fresh on every connection observation and handed to the host
// callback; it has no lifecycle of its own.
type ConnectionResult struct {
	// SessionID correlates log lines and callbacks of one connection.
	SessionID string `json:"sessionId"`
	// Address is the connected account address (0x... or T...).
	Address string `json:"address"`
	// Chain is resolved purely from the wallet-reported network id, never
	// from the user selection.
	Chain SupportedChain `json:"chain"`
	// WrongNetwork is true when Chain differs from the user selection, or
	// when the reported network id was not recognized at all.
	WrongNetwork bool `json:"wrongNetwork"`
	// Handle is the opaque chain-specific wallet session handle behind this
	// connection. It is delivered in-process to the host callback only and
	// never serialized; API clients redeem the SessionID instead.
	Handle interface{} `json:"-"`
}
