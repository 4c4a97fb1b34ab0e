package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"
)

// Preprocess runs the whole pipeline over source: [Tokenize], [Parse] and
// [Interpret]. The first error from any stage is returned, with no text.
func Preprocess(ctx context.Context, source string, vars Context, opts ...Option) (string, error) {
	tokens, err := Tokenize(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	root, err := Parse(ctx, tokens, opts...)
	if err != nil {
		return "", err
	}

	return Interpret(ctx, root, vars, opts...)
}

// PreprocessReader reads r to the end and preprocesses its contents.
func PreprocessReader(ctx context.Context, r io.Reader, vars Context, opts ...Option) (string, error) {
	source, err := ReadSource(r)
	if err != nil {
		return "", err
	}

	return Preprocess(ctx, source, vars, opts...)
}

// PreprocessFile reads the file at path and preprocesses its contents.
// Errors are prefixed with path unless [WithFile] overrides it.
func PreprocessFile(ctx context.Context, path string, vars Context, opts ...Option) (string, error) {
	source, err := ReadFile(path)
	if err != nil {
		return "", err
	}

	return Preprocess(ctx, source, vars, append([]Option{WithFile(path)}, opts...)...)
}

// ReadSource reads a template from r.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

// ReadFile reads a template from the file at path.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	source, err := ReadSource(f)
	if err != nil {
		return "", WrapError(err).With(slog.String("path", path))
	}

	return source, nil
}
