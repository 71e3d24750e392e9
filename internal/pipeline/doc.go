// Package pipeline orchestrates the execution of search steps against a
// query and aggregates everything into a run report.
//
// # Architecture
//
// The package is built around three types:
//
//   - Step: the interface every pipeline stage implements. A step receives
//     a context and the accumulated RunReport, does its work, and records
//     results directly on the report.
//   - Pipeline: executes steps in order with structured logging, context
//     cancellation checks between steps, and configurable error handling.
//   - BatchProcessor: runs one pipeline per query concurrently with a
//     bounded worker count, for batch mode.
//
// The standard pipeline holds one SearchStep per configured provider. The
// first provider is primary; later steps are constructed in fallback mode
// and skip themselves when an earlier provider already produced records.
//
// Design decision: Steps communicate only through the report. This keeps
// each step independently testable and makes the fallback decision a pure
// function of accumulated state rather than inter-step signalling.
package pipeline
