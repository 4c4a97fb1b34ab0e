package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// load is a [kong.ConfigurationLoader] that reads YAML configuration files.
//
// Top-level keys name global flags. A key matching a command name holds a
// map of that command's flags, which takes precedence over the top-level
// value while the command is selected:
//
//	log-level: debug
//	log_format: json
//	render:
//	  max-depth: 64
//	fmt:
//	  indent: 2
//
// Flag names may be written with hyphens or underscores. Numbers are passed
// to kong as strings, booleans are kept native and lists are joined with
// commas. Command-line flags override configuration values.
//
// An empty or missing file yields an empty configuration. A malformed file
// is reported as an error.
func load(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, fmt.Errorf("configuration: %w", err)
	}

	return config(raw), nil
}

// config implements [kong.Resolver] for YAML configuration maps.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := config(section).lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := r.lookup(flag.Name); ok {
		return value, nil
	}

	return nil, nil
}

// lookup returns the value for name, trying the underscore form of a
// hyphenated name as a fallback.
func (r config) lookup(name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		value, ok := r[key]
		if !ok {
			continue
		}

		if value, ok := flagValue(value); ok {
			return value, true
		}
	}

	return nil, false
}

// flagValue converts a decoded YAML value to a form kong can decode.
// Maps are not flag values.
func flagValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case bool, string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			item, ok := flagValue(item)
			if !ok {
				return nil, false
			}

			items = append(items, fmt.Sprint(item))
		}

		return strings.Join(items, ","), true
	case map[string]any:
		return nil, false
	default:
		return fmt.Sprint(v), true
	}
}
