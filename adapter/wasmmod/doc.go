// Package wasmmod provides a wazero-backed Instantiator adapter: each module
// key maps to a core WebAssembly binary, and the module's exported functions
// become binding cell values (api.Function) on execution.
//
// WASM modules declare no engine-level dependencies; cross-module linking
// stays inside the WASM runtime. The adapter demonstrates that the engine is
// source-format agnostic: the same loader can mix in-memory and WASM-backed
// modules in one graph.
package wasmmod
