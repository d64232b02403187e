package glxvnd

// ContextTag records one current-rendering-state association: the
// protocol-visible tag, the owning client, the vendor module, the context,
// and the bound drawables. The vendor may attach private data; the
// dispatch layer stores it opaquely and never dereferences it.
type ContextTag struct {
	tag          uint32
	client       Client
	vendor       Vendor
	private      any
	context      XID
	drawable     XID
	readDrawable XID
}

// Tag returns the protocol-visible tag value.
func (t *ContextTag) Tag() uint32 { return t.tag }

// Client returns the client the tag belongs to.
func (t *ContextTag) Client() Client { return t.client }

// Vendor returns the vendor module the tag's context belongs to.
func (t *ContextTag) Vendor() Vendor { return t.vendor }

// Context returns the bound context identifier.
func (t *ContextTag) Context() XID { return t.context }

// Drawable returns the bound draw drawable.
func (t *ContextTag) Drawable() XID { return t.drawable }

// ReadDrawable returns the bound read drawable.
func (t *ContextTag) ReadDrawable() XID { return t.readDrawable }

// SetPrivate attaches vendor-private data to the tag. Its lifetime and
// meaning are owned exclusively by the vendor module.
func (t *ContextTag) SetPrivate(p any) { t.private = p }

// Private returns the vendor-private data attached via SetPrivate.
func (t *ContextTag) Private() any { return t.private }

// clientState is one client's context-tag table, created lazily on first
// use and destroyed in full on disconnect or server reset.
//
// Records live in a map keyed by tag, so table growth never invalidates a
// *ContextTag held across a vendor call. Tags are allocated from a
// monotonic counter and never reused for the life of the client state,
// which keeps a freed tag from aliasing a live one.
type clientState struct {
	tags    map[uint32]*ContextTag
	nextTag uint32
}

// AllocContextTag appends a new context-tag record for the client and
// returns it. The tag value is non-zero and distinct from every other tag
// ever allocated for this client. Allocation fails with ErrOutOfMemory
// when the table holds the configured maximum of live tags (see
// WithMaxContextTags) or the 32-bit tag space is exhausted; the table is
// left unchanged.
func (s *State) AllocContextTag(cl Client, v Vendor, ctx, draw, read XID) (*ContextTag, error) {
	cs := s.clientData(cl)
	if len(cs.tags) >= s.maxTags {
		return nil, ErrOutOfMemory
	}
	if cs.nextTag == 0 { // counter wrapped
		return nil, ErrOutOfMemory
	}
	t := &ContextTag{
		tag:          cs.nextTag,
		client:       cl,
		vendor:       v,
		context:      ctx,
		drawable:     draw,
		readDrawable: read,
	}
	cs.nextTag++
	cs.tags[t.tag] = t
	return t, nil
}

// LookupContextTag returns the client's record for a tag, or nil when the
// tag is unknown or already freed.
func (s *State) LookupContextTag(cl Client, tag uint32) *ContextTag {
	cs, ok := s.clients[cl.Index()]
	if !ok {
		return nil
	}
	return cs.tags[tag]
}

// FreeContextTag releases a context-tag record. The vendor-private data
// is not released here: the vendor gives it up in LoseCurrent before the
// record is freed. Freeing nil or an already-freed record is a no-op.
func (s *State) FreeContextTag(t *ContextTag) {
	if t == nil || t.tag == None {
		return
	}
	if cs, ok := s.clients[t.client.Index()]; ok {
		delete(cs.tags, t.tag)
	}
	// Neutralize the record so a stale reference held by a vendor cannot
	// resolve to live state.
	t.tag = None
	t.vendor = nil
	t.private = nil
	t.context = None
	t.drawable = None
	t.readDrawable = None
}
