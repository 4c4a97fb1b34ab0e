// Package cli contains the command line interface for tpp.
//
// # Usage
//
// With no command, tpp renders the template named by its argument (or read
// from standard input) and writes the result to standard output:
//
//	tpp -D DEBUG=TRUE --vars env.yaml config.in -o config.out
//
// Other commands validate, format and inspect templates, and start an
// interactive expression evaluator:
//
//	tpp check a.tpp b.tpp
//	tpp fmt -w a.tpp
//	tpp tokens -e json a.tpp
//	tpp ast a.tpp
//	tpp repl
//	tpp init
//
// # Configuration
//
// Flags may be read from a YAML file in the user configuration directory
// (e.g. ~/.config/tpp/config.yaml). See [load] for its layout. The init
// command writes the current global flags to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tpp .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/tpp/pprof)
package cli
