// Package profile provides optional runtime profiling for tpp.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o tpp .
//
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time (fgprof)
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       memory (default sampling)
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// A profile is written to <dir>/<mode>.pprof when the profiler stops:
//
//	tpp --pprof-mode=cpu render big.tpp
//	go tool pprof -http=: ~/.cache/tpp/pprof/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
