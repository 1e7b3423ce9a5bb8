// Package errors provides structured error types for the module engine.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind
// (error category), carry a cause chain, and are annotated with an ordered
// load stack describing the import chain that reached the failure:
//
//	[evaluate] evaluation: module body failed (caused by: boom)
//	  Evaluating app:/dep
//	  Evaluating app:/main
//
// Frames are innermost first: the operation that failed, then one frame per
// ancestor in the import chain. Use the convenience constructors for the
// pipeline failure points:
//
//	err := errors.Resolution("./missing", cause)
//	err := errors.Evaluation("app:/dep", cause)
//
// and WithFrame to prepend ancestor frames as a failure unwinds:
//
//	err = errors.WithFrame(err, errors.OpEvaluating, parentKey)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
