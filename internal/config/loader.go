package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, in lookup order.
var FileNames = []string{"leapcompat.yaml", "leapcompat.yml"}

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: LEAPCOMPAT_RESOLVER__KIND=static, LEAPCOMPAT_ENGINES__CHROME=80.
const EnvPrefix = "LEAPCOMPAT_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Flags that are not plain config keys.
const (
	flagConfig  = "config"
	flagEngine  = "engine"
	flagNoCache = "no-cache"
)

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"resolver":         "resolver.kind",
	"resolver-file":    "resolver.file",
	"resolver-command": "resolver.command",
	"resolver-timeout": "resolver.timeout",
	"cache-ttl":        "cache.ttl",
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an explicit config path. When empty, FileNames are searched
	// upward from Dir.
	File string
	// Dir is where the search starts. Defaults to the working directory.
	Dir string
	// Flags, when set, override every other source. Only changed flags count.
	Flags *pflag.FlagSet
	// Environ replaces os.Environ, for tests.
	Environ []string
}

// FindFile searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func FindFile(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load reads configuration from defaults, file, environment and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := locate(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := loadEnv(k, opts.Environ); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		if err := loadFlags(k, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = path

	// Paths from the config file are relative to that file.
	if path != "" {
		base := filepath.Dir(path)
		if !flagChanged(opts.Flags, "resolver-file") {
			cfg.Resolver.File = resolvePathRelativeTo(cfg.Resolver.File, base)
		}
		cfg.Cache.Path = resolvePathRelativeTo(cfg.Cache.Path, base)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func locate(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return opts.File, nil
	}
	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil
		}
		dir = cwd
	}
	return FindFile(dir), nil
}

// envKey transforms LEAPCOMPAT_RESOLVER__KIND -> resolver.kind.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func loadEnv(k *koanf.Koanf, environ []string) error {
	if environ == nil {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return fmt.Errorf("failed to load env vars: %w", err)
		}
		return nil
	}

	vars := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		vars[envKey(name)] = value
	}
	if err := k.Load(confmap.Provider(vars, "."), nil); err != nil {
		return fmt.Errorf("failed to load env vars: %w", err)
	}
	return nil
}

func loadFlags(k *koanf.Koanf, flags *pflag.FlagSet) error {
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		if !f.Changed || f.Name == flagConfig || f.Name == flagEngine {
			return "", nil
		}
		if f.Name == flagNoCache {
			off, _ := flags.GetBool(flagNoCache)
			return "cache.enabled", !off
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		return key, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("failed to load flags: %w", err)
	}

	if !flagChanged(flags, flagEngine) {
		return nil
	}
	values, err := flags.GetStringArray(flagEngine)
	if err != nil {
		return fmt.Errorf("--%s: %w", flagEngine, err)
	}
	engines, err := ParseEngineFlags(values)
	if err != nil {
		return err
	}
	if err := k.Load(confmap.Provider(engines, "."), nil); err != nil {
		return fmt.Errorf("failed to load engine flags: %w", err)
	}
	return nil
}

// ParseEngineFlags turns name=version pairs into engines.<name> keys.
func ParseEngineFlags(values []string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, v := range values {
		name, ver, ok := strings.Cut(v, "=")
		name, ver = strings.TrimSpace(name), strings.TrimSpace(ver)
		if !ok || name == "" || ver == "" {
			return nil, fmt.Errorf("--%s %q: want name=version", flagEngine, v)
		}
		out["engines."+name] = ver
	}
	return out, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Changed
}
