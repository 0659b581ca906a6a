package targets

import (
	"errors"
	"fmt"
)

// Feature is an ECMAScript language feature that may need a compatibility
// transform. The zero value is not a feature.
type Feature int

// Features, grouped by edition.
const (
	_ Feature = iota

	ES2015ArrowFunctions
	ES2015BlockScoping
	ES2015Classes
	ES2015ComputedProperties
	ES2015Destructuring
	ES2015ForOf
	ES2015Generators
	ES2015Parameters
	ES2015ShorthandProperties
	ES2015Spread
	ES2015StickyRegex
	ES2015TemplateLiterals
	ES2015UnicodeRegex

	ES2016ExponentiationOperator

	ES2017AsyncToGenerator

	ES2018AsyncGeneratorFunctions
	ES2018DotallRegex
	ES2018NamedCapturingGroupsRegex
	ES2018ObjectRestSpread
	ES2018UnicodePropertyRegex

	ES2019JSONStrings
	ES2019OptionalCatchBinding

	ES2020DynamicImport
	ES2020ExportNamespaceFrom
	ES2020NullishCoalescingOperator
	ES2020OptionalChaining

	ES2021LogicalAssignmentOperators
	ES2021NumericSeparator

	ES2022ClassProperties
	ES2022ClassStaticBlock
	ES2022PrivateMethods
	ES2022PrivatePropertyInObject

	ES2024UnicodeSetsRegex

	ES2025DuplicateNamedCapturingGroupsRegex
	ES2025RegExpModifiers

	featureEnd
)

type featureInfo struct {
	name    string
	edition string
}

var featureInfos = [featureEnd]featureInfo{
	ES2015ArrowFunctions:      {"es2015-arrow-functions", "ES2015"},
	ES2015BlockScoping:        {"es2015-block-scoping", "ES2015"},
	ES2015Classes:             {"es2015-classes", "ES2015"},
	ES2015ComputedProperties:  {"es2015-computed-properties", "ES2015"},
	ES2015Destructuring:       {"es2015-destructuring", "ES2015"},
	ES2015ForOf:               {"es2015-for-of", "ES2015"},
	ES2015Generators:          {"es2015-generators", "ES2015"},
	ES2015Parameters:          {"es2015-parameters", "ES2015"},
	ES2015ShorthandProperties: {"es2015-shorthand-properties", "ES2015"},
	ES2015Spread:              {"es2015-spread", "ES2015"},
	ES2015StickyRegex:         {"es2015-sticky-regex", "ES2015"},
	ES2015TemplateLiterals:    {"es2015-template-literals", "ES2015"},
	ES2015UnicodeRegex:        {"es2015-unicode-regex", "ES2015"},

	ES2016ExponentiationOperator: {"es2016-exponentiation-operator", "ES2016"},

	ES2017AsyncToGenerator: {"es2017-async-to-generator", "ES2017"},

	ES2018AsyncGeneratorFunctions:   {"es2018-async-generator-functions", "ES2018"},
	ES2018DotallRegex:               {"es2018-dotall-regex", "ES2018"},
	ES2018NamedCapturingGroupsRegex: {"es2018-named-capturing-groups-regex", "ES2018"},
	ES2018ObjectRestSpread:          {"es2018-object-rest-spread", "ES2018"},
	ES2018UnicodePropertyRegex:      {"es2018-unicode-property-regex", "ES2018"},

	ES2019JSONStrings:          {"es2019-json-strings", "ES2019"},
	ES2019OptionalCatchBinding: {"es2019-optional-catch-binding", "ES2019"},

	ES2020DynamicImport:             {"es2020-dynamic-import", "ES2020"},
	ES2020ExportNamespaceFrom:       {"es2020-export-namespace-from", "ES2020"},
	ES2020NullishCoalescingOperator: {"es2020-nullish-coalescing-operator", "ES2020"},
	ES2020OptionalChaining:          {"es2020-optional-chaining", "ES2020"},

	ES2021LogicalAssignmentOperators: {"es2021-logical-assignment-operators", "ES2021"},
	ES2021NumericSeparator:           {"es2021-numeric-separator", "ES2021"},

	ES2022ClassProperties:         {"es2022-class-properties", "ES2022"},
	ES2022ClassStaticBlock:        {"es2022-class-static-block", "ES2022"},
	ES2022PrivateMethods:          {"es2022-private-methods", "ES2022"},
	ES2022PrivatePropertyInObject: {"es2022-private-property-in-object", "ES2022"},

	ES2024UnicodeSetsRegex: {"es2024-unicode-sets-regex", "ES2024"},

	ES2025DuplicateNamedCapturingGroupsRegex: {"es2025-duplicate-named-capturing-groups-regex", "ES2025"},
	ES2025RegExpModifiers:                    {"es2025-regexp-modifiers", "ES2025"},
}

var featuresByName = func() map[string]Feature {
	m := make(map[string]Feature, len(featureInfos))
	for _, f := range Features() {
		m[featureInfos[f].name] = f
	}
	return m
}()

// ErrUnknownFeature is matched by *UnknownFeatureError.
var ErrUnknownFeature = errors.New("unknown feature")

// UnknownFeatureError is returned by ParseFeature for an unrecognized name.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q", e.Name)
}

// Is reports whether target is ErrUnknownFeature.
func (e *UnknownFeatureError) Is(target error) bool { return target == ErrUnknownFeature }

// Features returns every feature in table order.
func Features() []Feature {
	out := make([]Feature, 0, featureEnd-1)
	for f := ES2015ArrowFunctions; f < featureEnd; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFeature returns the feature with the given name ("es2020-optional-chaining").
func ParseFeature(name string) (Feature, error) {
	if f, ok := featuresByName[name]; ok {
		return f, nil
	}
	return 0, &UnknownFeatureError{Name: name}
}

// Valid reports whether f is a known feature.
func (f Feature) Valid() bool {
	return f > 0 && f < featureEnd
}

// String returns the feature name.
func (f Feature) String() string {
	if !f.Valid() {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureInfos[f].name
}

// Edition returns the ECMAScript edition that introduced f, e.g. "ES2020".
func (f Feature) Edition() string {
	if !f.Valid() {
		return ""
	}
	return featureInfos[f].edition
}

// HasFeature reports whether f must be transformed for t.
func (t EngineTargets) HasFeature(f Feature) bool {
	return t.ShouldEnable(requirements()[f])
}

// RequiredFeatures returns the features that must be transformed for t, in
// table order.
func (t EngineTargets) RequiredFeatures() []Feature {
	var out []Feature
	for _, f := range Features() {
		if t.HasFeature(f) {
			out = append(out, f)
		}
	}
	return out
}
