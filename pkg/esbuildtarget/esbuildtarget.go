// Package esbuildtarget converts engine targets into esbuild engine lists.
package esbuildtarget

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/targets"
	"github.com/leapstack-labs/leapcompat/pkg/version"
)

// esbuild has no engine for Samsung, Electron, OperaMobile or Android.
var engineNames = map[engine.Engine]api.EngineName{
	engine.Chrome:  api.EngineChrome,
	engine.Deno:    api.EngineDeno,
	engine.Edge:    api.EngineEdge,
	engine.Firefox: api.EngineFirefox,
	engine.Hermes:  api.EngineHermes,
	engine.IE:      api.EngineIE,
	engine.IOS:     api.EngineIOS,
	engine.Node:    api.EngineNode,
	engine.Opera:   api.EngineOpera,
	engine.Rhino:   api.EngineRhino,
	engine.Safari:  api.EngineSafari,
}

// Supported reports whether esbuild knows e.
func Supported(e engine.Engine) bool {
	_, ok := engineNames[e]
	return ok
}

// Engines returns the esbuild engines for t. Engines esbuild does not know are
// left out; see Unsupported.
func Engines(t targets.EngineTargets) []api.Engine {
	out := make([]api.Engine, 0, t.Len())
	for e, v := range t.All() {
		name, ok := engineNames[e]
		if !ok {
			continue
		}
		out = append(out, api.Engine{Name: name, Version: compact(v)})
	}
	return out
}

// Unsupported returns the engines in t that Engines leaves out.
func Unsupported(t targets.EngineTargets) []engine.Engine {
	var out []engine.Engine
	for _, e := range t.Engines() {
		if !Supported(e) {
			out = append(out, e)
		}
	}
	return out
}

// TargetString renders t in esbuild's --target form, e.g. "chrome80,safari15.4".
func TargetString(t targets.EngineTargets) string {
	parts := make([]string, 0, t.Len())
	for e, v := range t.All() {
		if !Supported(e) {
			continue
		}
		parts = append(parts, e.String()+compact(v))
	}
	return strings.Join(parts, ",")
}

// compact drops trailing zero components: 80.0.0 -> 80, 15.4.0 -> 15.4.
func compact(v version.Version) string {
	switch {
	case v.Patch != 0:
		return v.String()
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d", v.Major)
	}
}
