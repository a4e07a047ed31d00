package evmwallet

import (
	"context"
	"time"
)

// fakeProvider scripts wallet responses per method and records every request.
type fakeProvider struct {
	handlers map[string]func(result interface{}, args []interface{}) error
	calls    []string
}

func (f *fakeProvider) Request(_ context.Context, result interface{}, method string, args ...interface{}) error {
	f.calls = append(f.calls, method)
	handler, ok := f.handlers[method]
	if !ok {
		return &walletError{code: -32601, msg: "the method " + method + " does not exist"}
	}
	return handler(result, args)
}

// walletError mimics the coded errors the wallet session returns.
type walletError struct {
	code int
	msg  string
}

func (e *walletError) Error() string  { return e.msg }
func (e *walletError) ErrorCode() int { return e.code }

func newTestSessions(provider Provider) *SessionProvider {
	sessions := NewSessionProvider("http://127.0.0.1:0", time.Second, nil, nil)
	sessions.provider = provider
	return sessions
}

func accountsHandler(accounts ...string) func(result interface{}, args []interface{}) error {
	return func(result interface{}, _ []interface{}) error {
		*result.(*[]string) = accounts
		return nil
	}
}

func chainIDHandler(hex string) func(result interface{}, args []interface{}) error {
	return func(result interface{}, _ []interface{}) error {
		*result.(*string) = hex
		return nil
	}
}
