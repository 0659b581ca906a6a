// Package engine defines the closed set of JavaScript runtimes and browsers
// that compatibility targets can name.
//
// Two lookups are provided on purpose:
//   - [Parse] accepts canonical names only and fails on anything else. Use it
//     for names written by a programmer.
//   - [ResolveAlias] also accepts the aliases found in usage-statistics feeds
//     ("and_chr", "ios_saf", ...) and reports unknown names with a false
//     result instead of an error, so new feed entries never abort ingestion.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Engine identifies a target runtime. The zero value is Unknown.
type Engine int

// Engines, in declaration order.
const (
	Unknown Engine = iota
	Chrome
	Deno
	Edge
	Firefox
	Hermes
	IE
	IOS
	Node
	Opera
	Rhino
	Safari
	Samsung
	Electron
	OperaMobile
	Android
)

type info struct {
	name    string
	display string
	aliases []string
}

// engines is the single source of truth for names and aliases.
// Index is the Engine value.
var engines = [...]info{
	Unknown:     {name: "unknown", display: "Unknown"},
	Chrome:      {name: "chrome", display: "Chrome", aliases: []string{"and_chr"}},
	Deno:        {name: "deno", display: "Deno"},
	Edge:        {name: "edge", display: "Edge"},
	Firefox:     {name: "firefox", display: "Firefox", aliases: []string{"and_ff"}},
	Hermes:      {name: "hermes", display: "Hermes"},
	IE:          {name: "ie", display: "Internet Explorer", aliases: []string{"ie_mob"}},
	IOS:         {name: "ios", display: "iOS Safari", aliases: []string{"ios_saf"}},
	Node:        {name: "node", display: "Node.js"},
	Opera:       {name: "opera", display: "Opera", aliases: []string{"op_mob"}},
	Rhino:       {name: "rhino", display: "Rhino"},
	Safari:      {name: "safari", display: "Safari"},
	Samsung:     {name: "samsung", display: "Samsung Internet"},
	Electron:    {name: "electron", display: "Electron"},
	OperaMobile: {name: "opera_mobile", display: "Opera Mobile"},
	Android:     {name: "android", display: "Android Browser"},
}

var (
	byName  map[string]Engine // canonical names only
	byAlias map[string]Engine // canonical names and aliases
)

func init() {
	byName = make(map[string]Engine, len(engines))
	byAlias = make(map[string]Engine, len(engines)*2)
	for _, e := range All() {
		in := engines[e]
		if _, dup := byAlias[in.name]; dup {
			panic("engine: duplicate name " + in.name)
		}
		byName[in.name] = e
		byAlias[in.name] = e
		for _, a := range in.aliases {
			if _, dup := byAlias[a]; dup {
				panic("engine: duplicate alias " + a)
			}
			byAlias[a] = e
		}
	}
}

// ErrUnknownEngine is matched by *UnknownEngineError.
var ErrUnknownEngine = errors.New("unknown engine")

// UnknownEngineError is returned by Parse for an unrecognized name.
type UnknownEngineError struct {
	Name      string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown engine %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrUnknownEngine.
func (e *UnknownEngineError) Is(target error) bool { return target == ErrUnknownEngine }

// Parse returns the engine with the given canonical name.
// Aliases are not accepted.
func Parse(name string) (Engine, error) {
	if e, ok := byName[name]; ok {
		return e, nil
	}
	return Unknown, &UnknownEngineError{Name: name, Available: Names()}
}

// ResolveAlias returns the engine for a canonical name or a known alias.
func ResolveAlias(name string) (Engine, bool) {
	e, ok := byAlias[name]
	return e, ok
}

// All returns every valid engine in declaration order.
func All() []Engine {
	out := make([]Engine, 0, len(engines)-1)
	for e := Chrome; int(e) < len(engines); e++ {
		out = append(out, e)
	}
	return out
}

// Names returns the canonical names of all engines, sorted.
func Names() []string {
	names := make([]string, 0, len(engines)-1)
	for _, e := range All() {
		names = append(names, engines[e].name)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether e is one of the known engines.
func (e Engine) Valid() bool {
	return e > Unknown && int(e) < len(engines)
}

// String returns the canonical lowercase name.
func (e Engine) String() string {
	if e < Unknown || int(e) >= len(engines) {
		return fmt.Sprintf("engine(%d)", int(e))
	}
	return engines[e].name
}

// DisplayName returns a human-readable name.
func (e Engine) DisplayName() string {
	if !e.Valid() {
		return engines[Unknown].display
	}
	return engines[e].display
}

// Aliases returns the non-canonical names that resolve to e.
func (e Engine) Aliases() []string {
	if !e.Valid() {
		return nil
	}
	return append([]string(nil), engines[e].aliases...)
}

// MarshalText implements encoding.TextMarshaler.
func (e Engine) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", e)
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is strict like Parse.
func (e *Engine) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
