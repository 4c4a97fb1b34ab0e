package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" without a kong context.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource reads the template at path, or stdin for "-". The returned
// name prefixes diagnostics and is empty for stdin.
func readSource(path string) (name, text string, err error) {
	if path == "" || path == stdinSource {
		text, err = lang.ReadSource(os.Stdin)

		return "", text, err
	}

	text, err = lang.ReadFile(path)

	return path, text, err
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// uniqueSources removes paths naming a file already listed, comparing
// resolved device and inode pairs. Every "-" collapses into a single stdin
// entry placed last. Paths that cannot be resolved are kept so that
// reading them reports the error.
func uniqueSources(paths []string) []string {
	var (
		out   = make([]string, 0, len(paths))
		seen  = make(map[fileKey]struct{})
		stdin bool
	)

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if !ok {
			out = append(out, path)

			continue
		}

		if hasStdinKey && key == stdinKey {
			stdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, path)
	}

	if stdin {
		out = append(out, stdinSource)
	}

	return out
}

func resolveFileKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// defaultFileMode is the permission mode of files created by commands.
const defaultFileMode os.FileMode = 0o644

// writeOutput writes text to path, or to stdout for "" and "-". An existing
// file whose content hashes equal to text is left untouched so that its
// modification time only changes with its content.
func writeOutput(ctx context.Context, path, text string) error {
	if path == "" || path == stdinSource {
		if _, err := os.Stdout.WriteString(text); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if old, err := os.ReadFile(path); err == nil &&
		xxh3.Hash(old) == xxh3.HashString(text) && len(old) == len(text) {
		log.DebugContext(ctx, "output unchanged", slog.String("file", path))

		return nil
	}

	if err := os.WriteFile(path, []byte(text), defaultFileMode); err != nil {
		return ErrWriteOutput.
			With(slog.String("file", path)).
			Wrap(err)
	}

	log.DebugContext(ctx, "output written",
		slog.String("file", path),
		slog.Int("bytes", len(text)))

	return nil
}
