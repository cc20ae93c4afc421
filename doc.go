// Package microweb implements the core pipeline of a small, streaming HTML
// browser engine designed to run on constrained hardware.
//
// # Overview
//
// microweb turns a stream of HTML bytes into a laid-out, paintable document
// tree, and keeps the visible window consistent as bytes arrive, the user
// scrolls, or widgets are interacted with. The pipeline is:
//
//	bytes -> htmlparse.Parser -> node.Node tree -> layout.Engine -> pagerender.Renderer -> surface.Surface
//
// # Quick start
//
//	eng := microweb.New(640, 480)
//	eng.OpenURL("http://example.com/")
//	for eng.Tick() {
//	    // host polls input, feeds network buffers, draws eng.Surface()
//	}
//
// # Architecture
//
// The engine wires the dependency-ordered components documented in
// SPEC_FULL.md into a single explicit Engine context passed through the
// main loop: a memory tier (memtier), a draw surface abstraction (surface),
// a bundled asset pack (asset), a typed node tree (node), a streaming HTML
// parser (htmlparse), a layout engine (layout), an incremental page
// renderer (pagerender), a load-task coordinator (loadtask), and an
// application UI shell (ui). There are no package-level singletons.
//
// # Concurrency model
//
// Single-threaded and cooperative: Engine.Tick drives one iteration of
// parsing, layout, and painting, and never blocks. Tick polls no input;
// the host delivers input through HandleClick, HandleEnter, TypeRune,
// and the other Engine input methods.
package microweb
