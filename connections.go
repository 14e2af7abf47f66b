package esorm

import (
	"fmt"
	"sync"
)

// DefaultConnection is the registry name used by Connect.
const DefaultConnection = "default"

// Process-wide connection registry. Populated once during setup, read by
// every subsequent document operation.
var (
	connMu      sync.RWMutex
	connections = make(map[string]*Client)
)

// Connect creates a client for the given endpoints and registers it as the
// default connection.
func Connect(addrs ...string) (*Client, error) {
	return ConnectNamed(DefaultConnection, WithAddresses(addrs...))
}

// ConnectNamed creates a client and registers it under the given name.
func ConnectNamed(name string, opts ...Option) (*Client, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	Configure(name, c)
	return c, nil
}

// Configure registers an existing client under the given name, replacing any
// previous registration.
func Configure(name string, c *Client) {
	connMu.Lock()
	connections[name] = c
	connMu.Unlock()
}

// GetConnection returns a registered client. With no argument it returns the
// default connection.
func GetConnection(name ...string) (*Client, error) {
	key := DefaultConnection
	if len(name) > 0 {
		key = name[0]
	}
	connMu.RLock()
	c, ok := connections[key]
	connMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoConnection, key)
	}
	return c, nil
}
