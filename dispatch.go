package glxvnd

import "fmt"

// handler processes one GLX request kind.
type handler func(s *State, cl Client, req *Request) (*Reply, error)

// routeKind selects which table resolves the vendor for a request.
type routeKind uint8

const (
	routeScreen routeKind = iota
	routeXID
	routeTag
)

// dispatchTable maps GLX minor opcodes to their routing behavior. Offsets
// are the GLX protocol encoding offsets of the routing-key field, counted
// from the start of the request.
var dispatchTable = map[uint8]handler{
	OpRender:                   forwardBy(routeTag, 4),
	OpRenderLarge:              forwardBy(routeTag, 4),
	OpCreateContext:            createContext(4, 12),
	OpDestroyContext:           destroyContext(4),
	OpMakeCurrent:              makeCurrent(4, -1, 8, 12),
	OpIsDirect:                 forwardBy(routeXID, 4),
	OpQueryVersion:             queryVersion,
	OpWaitGL:                   forwardBy(routeTag, 4),
	OpWaitX:                    forwardBy(routeTag, 4),
	OpCopyContext:              forwardBy(routeTag, 16),
	OpSwapBuffers:              forwardBy(routeTag, 4),
	OpUseXFont:                 forwardBy(routeTag, 4),
	OpCreateGLXPixmap:          createDrawable(4, 16, DrawablePixmap),
	OpGetVisualConfigs:         forwardBy(routeScreen, 4),
	OpDestroyGLXPixmap:         destroyDrawable(4),
	OpVendorPrivate:            forwardBy(routeTag, 8),
	OpVendorPrivateWithReply:   forwardBy(routeTag, 8),
	OpQueryExtensionsString:    forwardBy(routeScreen, 4),
	OpQueryServerString:        forwardBy(routeScreen, 4),
	OpClientInfo:               clientInfo,
	OpGetFBConfigs:             forwardBy(routeScreen, 4),
	OpCreatePixmap:             createDrawable(4, 16, DrawablePixmap),
	OpDestroyPixmap:            destroyDrawable(4),
	OpCreateNewContext:         createContext(4, 12),
	OpQueryContext:             forwardBy(routeXID, 4),
	OpMakeContextCurrent:       makeCurrent(8, 12, 16, 4),
	OpCreatePbuffer:            createDrawable(4, 12, DrawablePbuffer),
	OpDestroyPbuffer:           destroyDrawable(4),
	OpGetDrawableAttributes:    forwardBy(routeXID, 4),
	OpChangeDrawableAttributes: forwardBy(routeXID, 4),
	OpCreateWindow:             createDrawable(4, 16, DrawableWindow),
	OpDestroyWindow:            destroyDrawable(4),
	OpSetClientInfoARB:         clientInfo,
	OpCreateContextAttribsARB:  createContext(4, 12),
	OpSetClientInfo2ARB:        clientInfo,
}

// Dispatch routes one GLX request: it extracts the routing key, resolves
// the owning vendor module, forwards the request through the vendor's
// export table, and returns the reply. Requests that resolve no vendor
// are rejected without reaching any module; unrecognized opcodes fail
// with ErrBadRequest. Use ErrorCode to turn a returned error into the X
// error code for the client's error reply.
func (s *State) Dispatch(cl Client, req *Request) (*Reply, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	h, ok := dispatchTable[req.Minor]
	if !ok {
		return nil, ErrBadRequest
	}
	s.log.Debug("dispatching request", "client", cl.Index(), "opcode", req.Minor)
	reply, err := h(s, cl, req)
	if err != nil {
		s.log.Warn("request failed",
			"client", cl.Index(), "opcode", req.Minor, "err", err)
	}
	return reply, err
}

// resolveVendor is the single vendor-resolution step behind every routed
// opcode: one routing key in, one module reference out.
func (s *State) resolveVendor(cl Client, kind routeKind, key uint32) (Vendor, error) {
	switch kind {
	case routeScreen:
		if v := s.VendorForClientScreen(cl, int(key)); v != nil {
			return v, nil
		}
	case routeXID:
		if v := s.XIDMap(XID(key)); v != nil {
			return v, nil
		}
	case routeTag:
		if t := s.LookupContextTag(cl, key); t != nil {
			return t.vendor, nil
		}
		return nil, ErrTagNotFound
	}
	return nil, ErrNoVendor
}

// shortRequest rejects a request too short to hold its routing key.
func shortRequest(req *Request) error {
	return protoErr(CodeBadLength, fmt.Errorf("glxvnd: request opcode %d too short", req.Minor))
}

// forwardBy forwards a request to the vendor resolved from the 32-bit
// routing key at the given offset.
func forwardBy(kind routeKind, off int) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		key, ok := req.Card32At(off, cl)
		if !ok {
			return nil, shortRequest(req)
		}
		v, err := s.resolveVendor(cl, kind, key)
		if err != nil {
			return nil, err
		}
		return v.HandleRequest(cl, req)
	}
}

// createContext handles the context-creating requests: resolve the vendor
// by screen, claim the new XID, then forward. The claim is rolled back if
// the vendor rejects the request.
func createContext(ctxOff, screenOff int) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		ctx, ok1 := req.Card32At(ctxOff, cl)
		screen, ok2 := req.Card32At(screenOff, cl)
		if !ok1 || !ok2 {
			return nil, shortRequest(req)
		}
		vnd, err := s.resolveVendor(cl, routeScreen, screen)
		if err != nil {
			return nil, err
		}
		if err := s.AddXIDMap(XID(ctx), vnd); err != nil {
			return nil, err
		}
		if err := vnd.CreateContext(cl, int(screen), XID(ctx), req); err != nil {
			s.RemoveXIDMap(XID(ctx))
			return nil, err
		}
		return nil, nil
	}
}

// destroyContext resolves the owning vendor by context XID, forwards, and
// drops the ownership mapping on success. The mapping may already be gone
// when the host destroyed the resource first; both orders are safe.
func destroyContext(ctxOff int) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		ctx, ok := req.Card32At(ctxOff, cl)
		if !ok {
			return nil, shortRequest(req)
		}
		vnd, err := s.resolveVendor(cl, routeXID, ctx)
		if err != nil {
			return nil, err
		}
		if err := vnd.DestroyContext(cl, XID(ctx), req); err != nil {
			return nil, err
		}
		s.RemoveXIDMap(XID(ctx))
		return nil, nil
	}
}

// createDrawable mirrors createContext for the drawable-creating requests.
func createDrawable(screenOff, xidOff int, kind DrawableKind) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		screen, ok1 := req.Card32At(screenOff, cl)
		draw, ok2 := req.Card32At(xidOff, cl)
		if !ok1 || !ok2 {
			return nil, shortRequest(req)
		}
		vnd, err := s.resolveVendor(cl, routeScreen, screen)
		if err != nil {
			return nil, err
		}
		if err := s.AddXIDMap(XID(draw), vnd); err != nil {
			return nil, err
		}
		if err := vnd.CreateDrawable(cl, int(screen), XID(draw), kind, req); err != nil {
			s.RemoveXIDMap(XID(draw))
			return nil, err
		}
		return nil, nil
	}
}

// destroyDrawable mirrors destroyContext for the drawable-destroying
// requests.
func destroyDrawable(xidOff int) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		draw, ok := req.Card32At(xidOff, cl)
		if !ok {
			return nil, shortRequest(req)
		}
		vnd, err := s.resolveVendor(cl, routeXID, draw)
		if err != nil {
			return nil, err
		}
		if err := vnd.DestroyDrawable(cl, XID(draw), req); err != nil {
			return nil, err
		}
		s.RemoveXIDMap(XID(draw))
		return nil, nil
	}
}

// makeCurrent handles MakeCurrent and MakeContextCurrent. readOff < 0
// means the request has no separate read drawable (the draw drawable is
// read from as well).
//
// Sequencing: the new tag is allocated and bound before the old one is
// released, so a vendor failure leaves the previous binding untouched.
func makeCurrent(drawOff, readOff, ctxOff, oldTagOff int) handler {
	return func(s *State, cl Client, req *Request) (*Reply, error) {
		draw, ok1 := req.Card32At(drawOff, cl)
		ctx, ok2 := req.Card32At(ctxOff, cl)
		oldTag, ok3 := req.Card32At(oldTagOff, cl)
		if !ok1 || !ok2 || !ok3 {
			return nil, shortRequest(req)
		}
		read := draw
		if readOff >= 0 {
			r, ok := req.Card32At(readOff, cl)
			if !ok {
				return nil, shortRequest(req)
			}
			read = r
		}

		var oldT *ContextTag
		if oldTag != None {
			oldT = s.LookupContextTag(cl, oldTag)
			if oldT == nil {
				return nil, ErrTagNotFound
			}
		}

		// Unbinding: no new context, no new drawable.
		if ctx == None && draw == None {
			if oldT != nil {
				oldT.Vendor().LoseCurrent(cl, oldT)
				s.FreeContextTag(oldT)
			}
			return makeCurrentReply(cl, None), nil
		}

		// The context XID identifies the owner; fall back to the drawable
		// for requests that bind a drawable to the already-current context.
		target := s.XIDMap(XID(ctx))
		if target == nil {
			target = s.XIDMap(XID(draw))
		}
		if target == nil {
			return nil, ErrNoVendor
		}
		if oldT != nil && oldT.Vendor() != target {
			return nil, ErrVendorMismatch
		}

		newT, err := s.AllocContextTag(cl, target, XID(ctx), XID(draw), XID(read))
		if err != nil {
			return nil, err
		}
		if err := target.MakeCurrent(cl, newT); err != nil {
			s.FreeContextTag(newT)
			return nil, err
		}
		if oldT != nil {
			target.LoseCurrent(cl, oldT)
			s.FreeContextTag(oldT)
		}
		return makeCurrentReply(cl, newT.Tag()), nil
	}
}

// makeCurrentReply encodes the MakeCurrent reply carrying the new context
// tag, in the client's byte order.
func makeCurrentReply(cl Client, tag uint32) *Reply {
	b := newReplyBuf(cl, 0, 0)
	putCard32(cl, b, 8, tag)
	return &Reply{Data: b}
}

// GLX version the dispatch layer reports. Vendor modules may support less;
// clients negotiate that per screen.
const (
	glxMajorVersion = 1
	glxMinorVersion = 4
)

// queryVersion is answered by the router itself; no vendor is involved.
func queryVersion(s *State, cl Client, req *Request) (*Reply, error) {
	if _, ok := req.Card32At(4, cl); !ok {
		return nil, shortRequest(req)
	}
	b := newReplyBuf(cl, 0, 0)
	putCard32(cl, b, 8, glxMajorVersion)
	putCard32(cl, b, 12, glxMinorVersion)
	return &Reply{Data: b}, nil
}

// clientInfo broadcasts the client's capability declaration to every
// distinct bound vendor. Individual vendor failures are logged and do not
// fail the request; the request has no reply.
func clientInfo(s *State, cl Client, req *Request) (*Reply, error) {
	seen := make(map[Vendor]bool)
	for i := range s.screens {
		v := s.screens[i].vendor
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		if _, err := v.HandleRequest(cl, req); err != nil {
			s.log.Warn("vendor rejected client info",
				"client", cl.Index(), "vendor", v.Name(), "err", err)
		}
	}
	return nil, nil
}
