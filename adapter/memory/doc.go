// Package memory provides an in-memory Instantiator adapter: module shapes
// are defined programmatically, keyed by canonical module key. It backs the
// test suites, the example and the CLI manifest loader.
package memory
