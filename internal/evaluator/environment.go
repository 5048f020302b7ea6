package evaluator

import (
	"sort"
	"sync"
)

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// Environment maps names to values. Bindings hold references: binding a
// list under two names shares one list.
type Environment struct {
	mu    sync.RWMutex
	store map[string]Object
}

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	return obj, ok
}

func (e *Environment) Set(name string, val Object) Object {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
	return val
}

// Delete unbinds name and reports whether it was bound.
func (e *Environment) Delete(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.store[name]; !ok {
		return false
	}
	delete(e.store, name)
	return true
}

// Names returns the bound names, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
