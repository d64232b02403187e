// Package swrast provides a software GLX vendor module for the glxvnd
// dispatch layer. Drawables are backed by gg pixmaps and rendered on the
// CPU, making it both the fallback module for screens without a hardware
// vendor and the reference implementation of the Vendor interface.
package swrast

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glxvnd"
)

// Default drawable size used until the first attribute update. GLX pixmap
// and pbuffer sizes travel in vendor-interpreted request fields this demo
// module does not parse.
const (
	defaultWidth  = 640
	defaultHeight = 480
)

// Server strings reported for QueryServerString.
const (
	serverVendor     = "gogpu"
	serverVersion    = "1.4"
	serverExtensions = "GLX_ARB_multisample"
)

// QueryServerString name codes, per the GLX protocol.
const (
	stringVendor     = 0x1
	stringVersion    = 0x2
	stringExtensions = 0x3
)

// glContext is one GLX context owned by this module.
type glContext struct {
	id     glxvnd.XID
	screen int
}

// drawable is one GLX drawable, backed by a CPU pixmap.
type drawable struct {
	id     glxvnd.XID
	kind   glxvnd.DrawableKind
	format gputypes.TextureFormat
	pix    *gg.Pixmap
}

// binding is the vendor-private data attached to a context tag.
type binding struct {
	ctx  *glContext
	draw *drawable
}

// Vendor implements glxvnd.Vendor with CPU rendering.
type Vendor struct {
	contexts  map[glxvnd.XID]*glContext
	drawables map[glxvnd.XID]*drawable
}

// New creates an empty software vendor module.
func New() *Vendor {
	return &Vendor{
		contexts:  make(map[glxvnd.XID]*glContext),
		drawables: make(map[glxvnd.XID]*drawable),
	}
}

// Name returns "swrast".
func (v *Vendor) Name() string { return "swrast" }

// CreateContext records a new context for the screen.
func (v *Vendor) CreateContext(cl glxvnd.Client, screen int, ctx glxvnd.XID, req *glxvnd.Request) error {
	if _, ok := v.contexts[ctx]; ok {
		return fmt.Errorf("swrast: context %#x already exists", uint32(ctx))
	}
	v.contexts[ctx] = &glContext{id: ctx, screen: screen}
	return nil
}

// DestroyContext releases a context. Unknown contexts are rejected.
func (v *Vendor) DestroyContext(cl glxvnd.Client, ctx glxvnd.XID, req *glxvnd.Request) error {
	if _, ok := v.contexts[ctx]; !ok {
		return fmt.Errorf("swrast: unknown context %#x", uint32(ctx))
	}
	delete(v.contexts, ctx)
	return nil
}

// CreateDrawable allocates the backing pixmap for a new drawable.
func (v *Vendor) CreateDrawable(cl glxvnd.Client, screen int, draw glxvnd.XID, kind glxvnd.DrawableKind, req *glxvnd.Request) error {
	if _, ok := v.drawables[draw]; ok {
		return fmt.Errorf("swrast: drawable %#x already exists", uint32(draw))
	}
	pix := gg.NewPixmap(defaultWidth, defaultHeight)
	pix.Clear(gg.Black)
	v.drawables[draw] = &drawable{
		id:     draw,
		kind:   kind,
		format: gputypes.TextureFormatBGRA8Unorm,
		pix:    pix,
	}
	return nil
}

// DestroyDrawable releases a drawable and its pixmap.
func (v *Vendor) DestroyDrawable(cl glxvnd.Client, draw glxvnd.XID, req *glxvnd.Request) error {
	if _, ok := v.drawables[draw]; !ok {
		return fmt.Errorf("swrast: unknown drawable %#x", uint32(draw))
	}
	delete(v.drawables, draw)
	return nil
}

// MakeCurrent validates the tag's context and drawable and attaches the
// binding as tag-private data.
func (v *Vendor) MakeCurrent(cl glxvnd.Client, tag *glxvnd.ContextTag) error {
	ctx, ok := v.contexts[tag.Context()]
	if !ok {
		return fmt.Errorf("swrast: unknown context %#x", uint32(tag.Context()))
	}
	var draw *drawable
	if tag.Drawable() != glxvnd.None {
		draw, ok = v.drawables[tag.Drawable()]
		if !ok {
			return fmt.Errorf("swrast: unknown drawable %#x", uint32(tag.Drawable()))
		}
	}
	tag.SetPrivate(&binding{ctx: ctx, draw: draw})
	return nil
}

// LoseCurrent drops the binding. The contexts and drawables themselves
// stay alive until their destroy requests arrive.
func (v *Vendor) LoseCurrent(cl glxvnd.Client, tag *glxvnd.ContextTag) {
	tag.SetPrivate(nil)
}

// HandleRequest processes the forwarded requests this module understands.
// Requests with no reply and no effect on CPU state succeed silently, the
// same way a hardware module acknowledges commands it has queued.
func (v *Vendor) HandleRequest(cl glxvnd.Client, req *glxvnd.Request) (*glxvnd.Reply, error) {
	switch req.Minor {
	case glxvnd.OpQueryServerString:
		return v.queryServerString(cl, req)
	case glxvnd.OpSwapBuffers:
		return nil, v.swapBuffers(cl, req)
	case glxvnd.OpRender, glxvnd.OpRenderLarge,
		glxvnd.OpWaitGL, glxvnd.OpWaitX,
		glxvnd.OpClientInfo, glxvnd.OpSetClientInfoARB, glxvnd.OpSetClientInfo2ARB:
		return nil, nil
	}
	return nil, glxvnd.ErrBadRequest
}

// swapBuffers presents the bound drawable. A single-buffered CPU pixmap
// has nothing to flip, so presenting just verifies the binding.
func (v *Vendor) swapBuffers(cl glxvnd.Client, req *glxvnd.Request) error {
	drawID, ok := req.Card32At(8, cl)
	if !ok {
		return fmt.Errorf("swrast: SwapBuffers request too short")
	}
	if _, ok := v.drawables[glxvnd.XID(drawID)]; !ok {
		return fmt.Errorf("swrast: unknown drawable %#x", drawID)
	}
	return nil
}

// queryServerString builds the string reply for the requested name code.
func (v *Vendor) queryServerString(cl glxvnd.Client, req *glxvnd.Request) (*glxvnd.Reply, error) {
	name, ok := req.Card32At(8, cl)
	if !ok {
		return nil, fmt.Errorf("swrast: QueryServerString request too short")
	}
	var s string
	switch name {
	case stringVendor:
		s = serverVendor
	case stringVersion:
		s = serverVersion
	case stringExtensions:
		s = serverExtensions
	default:
		return nil, fmt.Errorf("swrast: unknown server string %#x", name)
	}
	return stringReply(cl, s), nil
}

// stringReply encodes an X string reply: 32-byte fixed part with the
// string length at offset 12, followed by the NUL-terminated string padded
// to a 4-byte boundary.
func stringReply(cl glxvnd.Client, s string) *glxvnd.Reply {
	n := len(s) + 1 // include the terminating NUL
	padded := (n + 3) &^ 3

	b := make([]byte, 32+padded)
	b[0] = 1 // X_Reply
	seq := cl.Sequence()
	length := uint32(padded / 4)
	if cl.Swapped() {
		seq = glxvnd.Swap16(seq)
		length = glxvnd.Swap32(length)
	}
	binary.NativeEndian.PutUint16(b[2:], seq)
	binary.NativeEndian.PutUint32(b[4:], length)
	binary.NativeEndian.PutUint32(b[12:], glxvnd.CheckSwap(cl, uint32(n)))
	copy(b[32:], s)
	return &glxvnd.Reply{Data: b}
}

// Drawable returns the pixmap backing a drawable, or nil when the
// drawable is unknown. It gives the embedding server CPU access to
// presented pixels (e.g. for composite readback).
func (v *Vendor) Drawable(id glxvnd.XID) *gg.Pixmap {
	d, ok := v.drawables[id]
	if !ok {
		return nil
	}
	return d.pix
}

// DrawableFormat returns the pixel format of a drawable's backing store,
// or TextureFormatUndefined for an unknown drawable.
func (v *Vendor) DrawableFormat(id glxvnd.XID) gputypes.TextureFormat {
	d, ok := v.drawables[id]
	if !ok {
		return gputypes.TextureFormatUndefined
	}
	return d.format
}
