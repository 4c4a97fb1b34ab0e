package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
	"github.com/ardnew/tpp/pkg"
)

// VarsPathEnv names the environment variable holding a list of variable
// files, separated like PATH, searched after any --vars file.
var VarsPathEnv = pkg.Prefix() + "VARS_PATH"

// Vars holds the flags that build the variable context of a template.
//
// Variable files are searched like PATH: a name takes its value from the
// first file that defines it. Definitions given with --define override
// every file.
type Vars struct {
	Define map[string]string `help:"Define a local variable."                            mapsep:"none" placeholder:"NAME=VALUE" short:"D"`
	Files  []string          `help:"Read variables from a YAML file."        name:"vars"               placeholder:"FILE"                   type:"path"`
	Env    bool              `help:"Expose the process environment to templates." default:"true" negatable:""`
}

// Context builds the variable context described by the flags. Files take
// precedence over the process environment.
func (v *Vars) Context(ctx context.Context) (lang.Context, error) {
	vars := lang.Context{
		Local:       make(map[string]string),
		Environment: make(map[string]string),
	}

	for _, path := range varsFiles(v.Files) {
		file, err := loadVarsFile(path)
		if err != nil {
			return lang.Context{}, err
		}

		fill(vars.Local, file.Local)
		fill(vars.Environment, file.Environment)

		log.DebugContext(ctx, "variables loaded",
			slog.String("file", path),
			slog.Int("local", len(file.Local)),
			slog.Int("environment", len(file.Environment)))
	}

	if v.Env {
		env := make(map[string]string)

		for _, kv := range os.Environ() {
			if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
				env[name] = value
			}
		}

		fill(vars.Environment, env)
	}

	maps.Copy(vars.Local, v.Define)

	return vars, nil
}

// varsFiles lists the variable files in lookup order: the explicit files
// in the order given, followed by those named in [VarsPathEnv], without
// duplicates. Entries of the environment list that do not exist are
// skipped; explicit files are always kept so that a missing one is
// reported.
func varsFiles(explicit []string) []string {
	listed := mung.Make(
		mung.WithSubjectItems(os.Getenv(VarsPathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
	).String()

	var (
		files []string
		seen  = make(map[string]struct{})
	)

	add := func(path string, required bool) {
		if path == "" {
			return
		}

		if !required {
			if _, err := os.Stat(path); err != nil {
				return
			}
		}

		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}

		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, path := range explicit {
		add(path, true)
	}

	for _, path := range filepath.SplitList(listed) {
		add(path, false)
	}

	return files
}

// fill copies the entries of src whose names dst does not define yet.
func fill(dst, src map[string]string) {
	for name, value := range src {
		if _, ok := dst[name]; !ok {
			dst[name] = value
		}
	}
}

// varsFile is the decoded content of a variables file.
type varsFile struct {
	Local       map[string]string
	Environment map[string]string
}

// Section names of a variables file. A file without them is a flat map of
// local variables.
const (
	sectionLocal       = "local"
	sectionEnvironment = "environment"
)

// loadVarsFile decodes a YAML variables file. Either form is accepted:
//
//	local:
//	  NAME: value
//	environment:
//	  HOME: /home/user
//
// or a flat mapping of local variables. Scalars are converted to their
// text; booleans become TRUE or FALSE.
func loadVarsFile(path string) (varsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return varsFile{}, ErrReadVars.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return decodeVars(path, data)
}

func decodeVars(path string, data []byte) (varsFile, error) {
	fail := func(err error) error {
		return ErrDecodeVars.
			With(slog.String("file", path)).
			Wrap(err)
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return varsFile{}, fail(err)
	}

	var file varsFile

	if isSectioned(doc) {
		local, err := scalarMap(doc[sectionLocal])
		if err != nil {
			return varsFile{}, fail(err)
		}

		env, err := scalarMap(doc[sectionEnvironment])
		if err != nil {
			return varsFile{}, fail(err)
		}

		file.Local, file.Environment = local, env

		return file, nil
	}

	local, err := scalarMap(doc)
	if err != nil {
		return varsFile{}, fail(err)
	}

	file.Local = local

	return file, nil
}

// isSectioned reports whether doc is made only of the known sections,
// each a mapping.
func isSectioned(doc map[string]any) bool {
	if len(doc) == 0 {
		return false
	}

	for key, value := range doc {
		if key != sectionLocal && key != sectionEnvironment {
			return false
		}

		if _, ok := value.(map[string]any); !ok && value != nil {
			return false
		}
	}

	return true
}

func scalarMap(v any) (map[string]string, error) {
	out := make(map[string]string)

	if v == nil {
		return out, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}

	for name, value := range m {
		s, err := scalar(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		out[name] = s
	}

	return out, nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if v {
			return lang.True, nil
		}

		return lang.False, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case map[string]any, []any:
		return "", fmt.Errorf("value is not a scalar (%T)", v)
	default:
		return fmt.Sprint(v), nil
	}
}
