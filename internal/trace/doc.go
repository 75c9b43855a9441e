// Package trace records what the dollar tool is doing while it runs.
//
// Events are spans (begin/end pairs) and points, tagged with a scope that
// says how coarse they are. A Level decides which scopes reach the output.
//
// # Usage
//
//	dollar check --trace=- --trace-level=detail ./templates
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only error points
//   - LevelPhase: driver operations and pipeline passes
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
//
// Every stream carries a run identifier so that traces from parallel
// invocations written to one file can be told apart.
package trace
