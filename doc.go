// Package glxvnd implements the vendor-neutral GLX dispatch layer of a
// display server.
//
// # Overview
//
// A server may drive several display adapters at once, each handled by an
// independently loaded vendor module. glxvnd sits between the server's
// generic request machinery and those modules: it decodes which screen,
// drawable, context, or resource identifier a GLX request targets, resolves
// the vendor module that owns the target, forwards the request through the
// vendor's export table, and relays the reply back to the client, applying
// byte-order adaptation for swapped clients along the way.
//
// # Quick Start
//
//	st := glxvnd.New(host, numScreens)
//	if err := st.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	st.BindScreen(0, vendor)
//
//	// For each decoded GLX request:
//	reply, err := st.Dispatch(client, req)
//
// # Architecture
//
// All mutable dispatch state lives in a State created by New:
//   - Screen bindings: one vendor per screen, set during screen init.
//   - XID ownership map: which vendor created a given context or drawable.
//   - Per-client context tags: the "currently bound" associations.
//
// Vendor modules are reached only through the Vendor interface; the host
// server is reached only through the Host interface. See the swrast
// subpackage for a complete software vendor built on gogpu/gg.
//
// # Threading
//
// The dispatch loop of an X-style server is single-threaded and runs each
// request to completion before starting the next. State relies on that
// model and performs no locking of its own: Dispatch, the lifecycle calls,
// and the resource-destroy callback must all run on the server's dispatch
// thread.
package glxvnd
