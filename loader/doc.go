// Package loader implements the import pipeline: resolve, instantiate, link,
// evaluate.
//
// A Loader owns a Registry and drives the two adapter contracts
// (modengine.Resolver, modengine.Instantiator) through a depth-first graph
// walk. New records are registered before the instantiator is awaited, so a
// dependency cycle reaching the same key observes the in-progress record
// instead of re-entering. The whole reachable graph is linked (every binding
// cell addressable) before the first module body runs, and bodies run in
// post-order, each at most once.
//
// Import operations are serialized: the engine never interleaves two
// pipelines, which is what makes "one instantiation, one execution per key"
// hold under concurrent imports. Cache peeks (Get), Delete and Register do
// not take the pipeline lock.
package loader
