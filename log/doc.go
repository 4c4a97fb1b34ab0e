// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options
// ([WithLevel], [WithFormat], [WithTimeLayout], [WithCaller], [WithPretty]).
// All logging methods take typed [slog.Attr] values only:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("parse complete", slog.Int("nodes", n))
//
// The package also keeps a default logger, reconfigured with [Config] and
// used by the package-level functions such as [Error] and [DebugContext].
//
// [LevelTrace] sits below [LevelDebug] and is used for stage boundaries of
// the preprocessing pipeline.
package log
