// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package types

import (
	"reflect"
	"sync"

	"github.com/tochemey/meshakt/errors"
)

// Registry maps wire type names to Go types. Every actor, argument,
// generic substitution and error type whose name crosses the wire must be
// registered on the receiving side so that it can be resolved by name.
type Registry interface {
	// Register adds the types of the given values. A value can be a
	// reflect.Type, a pointer to the zero value, or a plain value.
	Register(values ...any)
	// Deregister removes the registered type from the registry
	Deregister(v any)
	// Exists return true when a given type is in the registry
	Exists(v any) bool
	// TypesMap returns a copy of the registered types
	TypesMap() map[string]reflect.Type
	// Type returns the registered type of the given value
	Type(v any) (reflect.Type, bool)
	// TypeOf returns the type registered under the given name
	TypeOf(name string) (reflect.Type, bool)
}

type registry struct {
	mu       *sync.RWMutex
	typesMap map[string]reflect.Type
}

var _ Registry = (*registry)(nil)

// NewRegistry creates a new types registry
func NewRegistry() Registry {
	return &registry{
		mu:       &sync.RWMutex{},
		typesMap: make(map[string]reflect.Type),
	}
}

// Register adds the types of the given values
func (r *registry) Register(values ...any) {
	r.mu.Lock()
	for _, v := range values {
		rtype := reflectType(v)
		if rtype == nil {
			continue
		}
		r.typesMap[Name(rtype)] = rtype
	}
	r.mu.Unlock()
}

// Deregister removes the registered type from the registry
func (r *registry) Deregister(v any) {
	r.mu.Lock()
	delete(r.typesMap, NameOf(v))
	r.mu.Unlock()
}

// Exists return true when a given type is in the registry
func (r *registry) Exists(v any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.typesMap[NameOf(v)]
	return ok
}

// TypesMap returns a copy of the registered types
func (r *registry) TypesMap() map[string]reflect.Type {
	r.mu.RLock()
	out := make(map[string]reflect.Type, len(r.typesMap))
	for k, v := range r.typesMap {
		out[k] = v
	}
	r.mu.RUnlock()
	return out
}

// Type returns the registered type of the given value
func (r *registry) Type(v any) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, ok := r.typesMap[NameOf(v)]
	return out, ok
}

// TypeOf returns the type registered under the given name
func (r *registry) TypeOf(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, ok := r.typesMap[name]
	return out, ok
}

// reflectType returns the runtime type of object. Pointers resolve to their
// element type so that new(T) and T register the same entry.
func reflectType(v any) reflect.Type {
	switch value := v.(type) {
	case nil:
		return nil
	case reflect.Type:
		return value
	default:
		rtype := reflect.TypeOf(v)
		if rtype.Kind() == reflect.Pointer {
			return rtype.Elem()
		}
		return rtype
	}
}

// NameOf returns the wire name of the given value's type
func NameOf(v any) string {
	rtype := reflectType(v)
	if rtype == nil {
		return ""
	}
	return Name(rtype)
}

// Name returns the fully qualified wire name of a type. Named types are
// qualified by their package import path; other types use their Go syntax.
func Name(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + Name(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// MangledName returns the wire name of t, or ErrNoMangledName when the type
// cannot be identified by name on a remote peer.
func MangledName(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.NewErrNoMangledName("<nil>")
	}

	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return "", errors.NewErrNoMangledName(t)
	case reflect.Struct, reflect.Interface:
		if t.Name() == "" {
			return "", errors.NewErrNoMangledName(t)
		}
	case reflect.Pointer, reflect.Slice, reflect.Array:
		if _, err := MangledName(t.Elem()); err != nil {
			return "", errors.NewErrNoMangledName(t)
		}
	case reflect.Map:
		if _, err := MangledName(t.Key()); err != nil {
			return "", errors.NewErrNoMangledName(t)
		}
		if _, err := MangledName(t.Elem()); err != nil {
			return "", errors.NewErrNoMangledName(t)
		}
	default:
	}

	return Name(t), nil
}
