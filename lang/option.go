package lang

import (
	"io"
	"os"

	"github.com/ardnew/tpp/log"
)

// DefaultMaxDepth bounds the nesting of statements and bracketed
// expressions. Operators chained within one pair of brackets do not count.
const DefaultMaxDepth = 256

// Option configures a preprocessing stage.
type Option func(*config)

type config struct {
	logger   log.Logger
	sink     io.Writer
	file     string
	maxDepth int
}

func makeConfig(opts ...Option) config {
	c := config{sink: os.Stdout, maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// WithLogger sets the logger used to trace stage boundaries.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithPrintSink sets the destination of %PRINT output.
// A nil writer discards it. The default is [os.Stdout].
func WithPrintSink(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.sink = w
	}
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}

// WithFile names the source in error messages.
func WithFile(name string) Option {
	return func(c *config) { c.file = name }
}
