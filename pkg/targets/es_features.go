package targets

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/version"
)

// Native support floors, from the compat-table data used by Babel's
// preset-env. An engine missing from an entry has no floor for that feature.
var featureFloors = map[Feature]map[string]string{
	ES2015ArrowFunctions: {
		"chrome": "47", "opera": "34", "edge": "13", "firefox": "43", "safari": "10", "node": "6",
		"deno": "1", "ios": "10", "samsung": "5", "rhino": "1.7.13", "opera_mobile": "34", "electron": "0.36",
	},
	ES2015BlockScoping: {
		"chrome": "50", "opera": "37", "edge": "14", "firefox": "53", "safari": "11", "node": "6",
		"deno": "1", "ios": "11", "samsung": "5", "opera_mobile": "37", "electron": "1.1",
	},
	ES2015Classes: {
		"chrome": "46", "opera": "33", "edge": "13", "firefox": "45", "safari": "10", "node": "5",
		"deno": "1", "ios": "10", "samsung": "5", "opera_mobile": "33", "electron": "0.36",
	},
	ES2015ComputedProperties: {
		"chrome": "44", "opera": "31", "edge": "12", "firefox": "34", "safari": "7.1", "node": "4",
		"deno": "1", "ios": "8", "samsung": "4", "rhino": "1.7.13", "opera_mobile": "32", "electron": "0.30",
	},
	ES2015Destructuring: {
		"chrome": "51", "opera": "38", "edge": "15", "firefox": "53", "safari": "10", "node": "6.5",
		"deno": "1", "ios": "10", "samsung": "5", "opera_mobile": "41", "electron": "1.2",
	},
	ES2015ForOf: {
		"chrome": "51", "opera": "38", "edge": "15", "firefox": "53", "safari": "10", "node": "6.5",
		"deno": "1", "ios": "10", "samsung": "5", "opera_mobile": "41", "electron": "1.2",
	},
	ES2015Generators: {
		"chrome": "50", "opera": "37", "edge": "13", "firefox": "53", "safari": "10", "node": "6",
		"deno": "1", "ios": "10", "samsung": "5", "opera_mobile": "37", "electron": "1.1",
	},
	ES2015Parameters: {
		"chrome": "49", "opera": "36", "edge": "18", "firefox": "53", "safari": "16.3", "node": "6",
		"deno": "1", "ios": "16.3", "samsung": "5", "opera_mobile": "36", "electron": "0.37",
	},
	ES2015ShorthandProperties: {
		"chrome": "43", "opera": "30", "edge": "12", "firefox": "33", "safari": "9", "node": "4",
		"deno": "1", "ios": "9", "samsung": "4", "rhino": "1.7.14", "opera_mobile": "30", "electron": "0.27",
	},
	ES2015Spread: {
		"chrome": "46", "opera": "33", "edge": "13", "firefox": "45", "safari": "10", "node": "5",
		"deno": "1", "ios": "10", "samsung": "5", "opera_mobile": "33", "electron": "0.36",
	},
	ES2015StickyRegex: {
		"chrome": "49", "opera": "36", "edge": "13", "firefox": "3", "safari": "10", "node": "6",
		"deno": "1", "ios": "10", "samsung": "5", "rhino": "1.7.15", "opera_mobile": "36", "electron": "0.37",
	},
	ES2015TemplateLiterals: {
		"chrome": "41", "opera": "28", "edge": "13", "firefox": "34", "safari": "13", "node": "4",
		"deno": "1", "ios": "13", "samsung": "3.4", "opera_mobile": "28", "electron": "0.21",
	},
	ES2015UnicodeRegex: {
		"chrome": "50", "opera": "37", "edge": "13", "firefox": "46", "safari": "12", "node": "6",
		"deno": "1", "ios": "12", "samsung": "5", "opera_mobile": "37", "electron": "1.1",
	},
	ES2016ExponentiationOperator: {
		"chrome": "52", "opera": "39", "edge": "14", "firefox": "52", "safari": "10.1", "node": "7",
		"deno": "1", "ios": "10.3", "samsung": "6", "rhino": "1.7.14", "opera_mobile": "41", "electron": "1.3",
	},
	ES2017AsyncToGenerator: {
		"chrome": "55", "opera": "42", "edge": "15", "firefox": "52", "safari": "11", "node": "7.6",
		"deno": "1", "ios": "11", "samsung": "6", "opera_mobile": "42", "electron": "1.6",
	},
	ES2018AsyncGeneratorFunctions: {
		"chrome": "63", "opera": "50", "edge": "79", "firefox": "57", "safari": "12", "node": "10",
		"deno": "1", "ios": "12", "samsung": "8", "opera_mobile": "46", "electron": "3.0",
	},
	ES2018DotallRegex: {
		"chrome": "62", "opera": "49", "edge": "79", "firefox": "78", "safari": "11.1", "node": "8.10",
		"deno": "1", "ios": "11.3", "samsung": "8", "rhino": "1.7.15", "opera_mobile": "46", "electron": "3.0",
	},
	ES2018NamedCapturingGroupsRegex: {
		"chrome": "64", "opera": "51", "edge": "79", "firefox": "78", "safari": "11.1", "node": "10",
		"deno": "1", "ios": "11.3", "samsung": "9", "opera_mobile": "47", "electron": "3.0",
	},
	ES2018ObjectRestSpread: {
		"chrome": "60", "opera": "47", "edge": "79", "firefox": "55", "safari": "11.1", "node": "8.3",
		"deno": "1", "ios": "11.3", "samsung": "8", "opera_mobile": "44", "electron": "2.0",
	},
	ES2018UnicodePropertyRegex: {
		"chrome": "64", "opera": "51", "edge": "79", "firefox": "78", "safari": "11.1", "node": "10",
		"deno": "1", "ios": "11.3", "samsung": "9", "opera_mobile": "47", "electron": "3.0",
	},
	ES2019JSONStrings: {
		"chrome": "66", "opera": "53", "edge": "79", "firefox": "62", "safari": "12", "node": "10",
		"deno": "1", "ios": "12", "samsung": "9", "rhino": "1.7.14", "opera_mobile": "47", "electron": "3.0",
	},
	ES2019OptionalCatchBinding: {
		"chrome": "66", "opera": "53", "edge": "79", "firefox": "58", "safari": "11.1", "node": "10",
		"deno": "1", "ios": "11.3", "samsung": "9", "opera_mobile": "47", "electron": "3.0",
	},
	ES2020DynamicImport: {
		"chrome": "63", "opera": "50", "edge": "79", "firefox": "67", "safari": "11.1", "node": "13.2",
		"deno": "1", "ios": "11.3", "samsung": "8", "opera_mobile": "46", "electron": "3.0",
	},
	ES2020ExportNamespaceFrom: {
		"chrome": "72", "opera": "60", "edge": "79", "firefox": "80", "safari": "14.1", "node": "13.2",
		"deno": "1", "ios": "14.5", "samsung": "11", "opera_mobile": "51", "electron": "5.0",
	},
	ES2020NullishCoalescingOperator: {
		"chrome": "80", "opera": "67", "edge": "80", "firefox": "72", "safari": "13.1", "node": "14",
		"deno": "1", "ios": "13.4", "samsung": "13", "rhino": "1.8", "opera_mobile": "57", "electron": "8.0",
	},
	ES2020OptionalChaining: {
		"chrome": "91", "opera": "77", "edge": "91", "firefox": "74", "safari": "13.1", "node": "16.9",
		"deno": "1.9", "ios": "13.4", "samsung": "16", "opera_mobile": "64", "electron": "13.0",
	},
	ES2021LogicalAssignmentOperators: {
		"chrome": "85", "opera": "71", "edge": "85", "firefox": "79", "safari": "14", "node": "15",
		"deno": "1.2", "ios": "14", "samsung": "14", "opera_mobile": "60", "electron": "10.0",
	},
	ES2021NumericSeparator: {
		"chrome": "75", "opera": "62", "edge": "79", "firefox": "70", "safari": "13", "node": "12.5",
		"deno": "1", "ios": "13", "samsung": "11", "rhino": "1.7.14", "opera_mobile": "54", "electron": "6.0",
	},
	ES2022ClassProperties: {
		"chrome": "74", "opera": "62", "edge": "79", "firefox": "90", "safari": "14.1", "node": "12",
		"deno": "1", "ios": "14.5", "samsung": "11", "opera_mobile": "53", "electron": "6.0",
	},
	ES2022ClassStaticBlock: {
		"chrome": "94", "opera": "80", "edge": "94", "firefox": "93", "safari": "16.4", "node": "16.11",
		"deno": "1.14", "ios": "16.4", "samsung": "17", "opera_mobile": "66", "electron": "15.0",
	},
	ES2022PrivateMethods: {
		"chrome": "84", "opera": "70", "edge": "84", "firefox": "90", "safari": "15", "node": "14.6",
		"deno": "1", "ios": "15", "samsung": "14", "opera_mobile": "60", "electron": "10.0",
	},
	ES2022PrivatePropertyInObject: {
		"chrome": "91", "opera": "77", "edge": "91", "firefox": "90", "safari": "15", "node": "16.9",
		"deno": "1.9", "ios": "15", "samsung": "16", "opera_mobile": "64", "electron": "13.0",
	},
	ES2024UnicodeSetsRegex: {
		"chrome": "112", "opera": "98", "edge": "112", "firefox": "116", "safari": "17", "node": "20",
		"deno": "1.32", "ios": "17", "samsung": "23", "opera_mobile": "75", "electron": "24.0",
	},
	ES2025DuplicateNamedCapturingGroupsRegex: {
		"chrome": "126", "opera": "112", "edge": "126", "firefox": "129", "safari": "17.4", "node": "23",
		"ios": "17.4", "electron": "31.0",
	},
	ES2025RegExpModifiers: {
		"chrome": "125", "opera": "111", "edge": "125", "firefox": "132", "node": "23",
		"samsung": "27", "electron": "31.0",
	},
}

// requirements is built on first use and never mutated afterwards.
// It panics if featureFloors is inconsistent with the Feature enum.
var requirements = sync.OnceValue(func() map[Feature]EngineTargets {
	m, err := buildRequirements(featureFloors)
	if err != nil {
		panic(err)
	}
	return m
})

func buildRequirements(floors map[Feature]map[string]string) (map[Feature]EngineTargets, error) {
	m := make(map[Feature]EngineTargets, len(floors))
	for f, raw := range floors {
		if !f.Valid() {
			return nil, fmt.Errorf("feature table: invalid feature %d", int(f))
		}
		var t EngineTargets
		for name, s := range raw {
			e, err := engine.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("feature table: %s: %w", f, err)
			}
			v, err := version.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("feature table: %s: %s: %w", f, name, err)
			}
			t.Set(e, v)
		}
		m[f] = t
	}
	for _, f := range Features() {
		if _, ok := m[f]; !ok {
			return nil, fmt.Errorf("feature table: missing %s", f)
		}
	}
	return m, nil
}

// Requirement returns the floors at which f is supported natively.
// Unknown features have no floors.
func Requirement(f Feature) EngineTargets {
	return requirements()[f].Clone()
}
