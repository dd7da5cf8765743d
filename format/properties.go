package format

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Properties maps property names to accessors. Names are capitalized, as in
// "User" or "Channel".
type Properties[T any] map[string]func(T) interface{}

type registration struct {
	name   string
	lookup func(v interface{}) (get func(name string) (interface{}, bool), ok bool)
}

// PropertyManager resolves named properties of values whose types have been
// registered beforehand. It is safe for concurrent use.
type PropertyManager struct {
	mu        sync.RWMutex
	types     []registration
	functions map[string]func(string) string
}

func NewPropertyManager() *PropertyManager {
	return &PropertyManager{
		functions: map[string]func(string) string{
			"uppercase": func(s string) string { return cases.Upper(language.Und).String(s) },
			"lowercase": func(s string) string { return cases.Lower(language.Und).String(s) },
			"trim":      strings.TrimSpace,
		},
	}
}

// Register makes the properties of values of type T available under
// typeName. Registering the same type again replaces its properties.
func Register[T any](pm *PropertyManager, typeName string, props Properties[T]) {
	normalized := make(map[string]func(T) interface{}, len(props))
	for name, get := range props {
		normalized[capitalize(name)] = get
	}

	reg := registration{
		name: typeName,
		lookup: func(v interface{}) (func(string) (interface{}, bool), bool) {
			t, ok := v.(T)
			if !ok {
				return nil, false
			}
			return func(name string) (interface{}, bool) {
				get, ok := normalized[capitalize(name)]
				if !ok {
					return nil, false
				}
				return get(t), true
			}, true
		},
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	for i, other := range pm.types {
		if other.name == typeName {
			pm.types[i] = reg
			return
		}
	}
	pm.types = append(pm.types, reg)
}

// RegisterFunction adds a function that templates can pipe values through.
func (pm *PropertyManager) RegisterFunction(name string, fn func(string) string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.functions[name] = fn
}

func (pm *PropertyManager) find(v interface{}) (string, func(string) (interface{}, bool), bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, reg := range pm.types {
		if get, ok := reg.lookup(v); ok {
			return reg.name, get, true
		}
	}
	return "", nil, false
}

// TypeName returns the name v's type has been registered with.
func (pm *PropertyManager) TypeName(v interface{}) (string, bool) {
	name, _, ok := pm.find(v)
	return name, ok
}

// Property returns the property of v called name.
func (pm *PropertyManager) Property(v interface{}, name string) (interface{}, error) {
	typeName, get, ok := pm.find(v)
	if !ok {
		return nil, fmt.Errorf("no properties registered for %T", v)
	}
	prop, ok := get(name)
	if !ok {
		return nil, fmt.Errorf("%s has no property %q", typeName, name)
	}
	return prop, nil
}

// Function applies the function called name to value. Unknown functions
// return value unchanged and false.
func (pm *PropertyManager) Function(name, value string) (string, bool) {
	pm.mu.RLock()
	fn, ok := pm.functions[name]
	pm.mu.RUnlock()
	if !ok {
		return value, false
	}
	return fn(value), true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
