package tx

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Factory builds an empty transaction of a given type. Concrete
// transaction packages register themselves from init.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	registry   = map[Type]Factory{}
)

// Register installs a factory for a transaction type. Registering the
// same type twice panics; it is a programming error.
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[t]; dup {
		panic(fmt.Sprintf("tx: duplicate registration for %s", t))
	}
	registry[t] = f
}

// NewFromType builds an empty transaction of the given type.
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tx: unsupported transaction type %s", t)
	}
	return f(), nil
}

// FromJSON decodes a transaction from its JSON form, dispatching on the
// TransactionType field.
func FromJSON(data []byte) (Transaction, error) {
	var header struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("tx: invalid transaction JSON: %w", err)
	}
	t, ok := TypeFromName(header.TransactionType)
	if !ok {
		return nil, fmt.Errorf("tx: unknown TransactionType %q", header.TransactionType)
	}
	txn, err := NewFromType(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, fmt.Errorf("tx: decoding %s: %w", t, err)
	}
	return txn, nil
}

// ToJSON renders a transaction from its flattened form.
func ToJSON(txn Transaction) ([]byte, error) {
	return json.Marshal(txn.Flatten())
}

// SupportedTypes lists the registered transaction type names.
func SupportedTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for t := range registry {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}
