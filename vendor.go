package glxvnd

// DrawableKind distinguishes the GLX drawable flavors a vendor module can
// be asked to create.
type DrawableKind uint8

const (
	// DrawableWindow is an on-screen window drawable.
	DrawableWindow DrawableKind = iota

	// DrawablePixmap is a GLX pixmap drawable.
	DrawablePixmap

	// DrawablePbuffer is an off-screen pbuffer drawable.
	DrawablePbuffer
)

// Vendor is the export table of one loaded vendor module. The router
// reaches modules only through this interface and never inspects a
// module's internals.
//
// A forwarded call may perform a long-running hardware operation; the
// router provides no cancellation or timeout, matching the server's
// run-to-completion dispatch model.
//
// Vendor handles are loaded once at server startup and never unloaded
// while the process runs, so the dispatch layer keeps bare references
// without counting them.
type Vendor interface {
	// Name returns the module identifier (e.g., "swrast", "nvidia").
	Name() string

	// CreateContext creates the context named ctx on the given screen.
	// The raw request carries the remaining vendor-interpreted fields
	// (visual or fbconfig, share list, direct flag).
	CreateContext(cl Client, screen int, ctx XID, req *Request) error

	// DestroyContext destroys the context named ctx.
	DestroyContext(cl Client, ctx XID, req *Request) error

	// CreateDrawable creates the drawable named draw on the given screen.
	CreateDrawable(cl Client, screen int, draw XID, kind DrawableKind, req *Request) error

	// DestroyDrawable destroys the drawable named draw.
	DestroyDrawable(cl Client, draw XID, req *Request) error

	// MakeCurrent binds the context and drawables recorded in tag to the
	// client's command stream. The vendor may attach private data to the
	// tag via SetPrivate; the dispatch layer never dereferences it.
	MakeCurrent(cl Client, tag *ContextTag) error

	// LoseCurrent releases whatever MakeCurrent attached to the tag. It
	// is called before the tag record is freed, on rebinding, unbinding,
	// and client teardown.
	LoseCurrent(cl Client, tag *ContextTag)

	// HandleRequest processes one forwarded request that is not covered
	// by the dedicated entries above. A nil Reply with nil error means
	// success with no reply to send.
	HandleRequest(cl Client, req *Request) (*Reply, error)
}

// ScreenVendorOverride selects a vendor for a client's request on a screen
// ahead of the screen binding, e.g. to route indirect-rendering clients to
// a different module. Returning nil falls through to the screen binding.
type ScreenVendorOverride func(cl Client, screen int) Vendor
