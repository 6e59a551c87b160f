package matchbox

import (
	"sort"
	"strings"
	"sync"
)

/*
 * Operator registry.
 *
 * Symbols map to operator singletons, case-insensitively. The built-in
 * set is registered when a registry is constructed; external code may
 * register custom operators the same way. Duplicate registration is a
 * documented upsert: the last registration wins.
 *
 * The default process-wide registry is created lazily on first use.
 * Rule-evaluation layers that want isolation construct their own with
 * NewRegistry and inject it.
 */

// None is the "no operator" value returned when resolving the empty
// symbol. It is a valid Operator whose Generate always fails, letting
// callers represent optional rule slots without nil checks.
var None Operator = noneOp{}

type noneOp struct{}

func (noneOp) Symbol() string { return "" }

func (noneOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	return Predicate{}, &InvalidOperatorUsageError{Reason: "no operator selected"}
}

// IsNone reports whether op is absent: nil or the no-operator value.
func IsNone(op Operator) bool {
	if op == nil {
		return true
	}
	_, ok := op.(noneOp)
	return ok
}

// Registry resolves operator symbols to operator singletons.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operator
}

// NewRegistry constructs a registry pre-populated with the built-in
// operator set.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Operator, len(builtinOps))}
	for _, op := range builtinOps {
		r.Register(op.Symbol(), op)
	}
	return r
}

// Register binds a symbol to an operator. Symbols are case-insensitive;
// re-registering a symbol overwrites the prior binding. The empty symbol
// is reserved for the no-operator value and cannot be bound.
func (r *Registry) Register(symbol string, op Operator) {
	key := registryKey(symbol)
	if key == "" || op == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[key] = op
}

// FromSymbol resolves a symbol to its operator. The empty symbol resolves
// to None; an unregistered non-empty symbol fails with
// UnknownOperatorError.
func (r *Registry) FromSymbol(symbol string) (Operator, error) {
	key := registryKey(symbol)
	if key == "" {
		return None, nil
	}
	r.mu.RLock()
	op, ok := r.ops[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownOperatorError{Symbol: symbol}
	}
	return op, nil
}

// Symbols returns the canonical symbols of all registered operators,
// sorted.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	seen := make(map[string]struct{}, len(r.ops))
	for _, op := range r.ops {
		seen[op.Symbol()] = struct{}{}
	}
	r.mu.RUnlock()

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

func registryKey(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register binds a symbol in the default registry.
func Register(symbol string, op Operator) {
	Default().Register(symbol, op)
}

// FromSymbol resolves a symbol against the default registry.
func FromSymbol(symbol string) (Operator, error) {
	return Default().FromSymbol(symbol)
}

// SymbolOf returns an operator's canonical symbol, "" for nil or the
// no-operator value.
func SymbolOf(op Operator) string {
	if op == nil {
		return ""
	}
	return op.Symbol()
}
