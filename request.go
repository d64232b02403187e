package glxvnd

import "encoding/binary"

// XID is a generic server-wide resource identifier. Here it names objects
// owned by vendor modules: GLX contexts, GLX drawables, pbuffers.
type XID uint32

// None is the reserved identifier and context-tag value meaning "no object"
// or "no current association". It is never allocated.
const None = 0

// GLX minor opcodes, per the GLX protocol encoding.
const (
	OpRender                   = 1
	OpRenderLarge              = 2
	OpCreateContext            = 3
	OpDestroyContext           = 4
	OpMakeCurrent              = 5
	OpIsDirect                 = 6
	OpQueryVersion             = 7
	OpWaitGL                   = 8
	OpWaitX                    = 9
	OpCopyContext              = 10
	OpSwapBuffers              = 11
	OpUseXFont                 = 12
	OpCreateGLXPixmap          = 13
	OpGetVisualConfigs         = 14
	OpDestroyGLXPixmap         = 15
	OpVendorPrivate            = 16
	OpVendorPrivateWithReply   = 17
	OpQueryExtensionsString    = 18
	OpQueryServerString        = 19
	OpClientInfo               = 20
	OpGetFBConfigs             = 21
	OpCreatePixmap             = 22
	OpDestroyPixmap            = 23
	OpCreateNewContext         = 24
	OpQueryContext             = 25
	OpMakeContextCurrent       = 26
	OpCreatePbuffer            = 27
	OpDestroyPbuffer           = 28
	OpGetDrawableAttributes    = 29
	OpChangeDrawableAttributes = 30
	OpCreateWindow             = 31
	OpDestroyWindow            = 32
	OpSetClientInfoARB         = 33
	OpCreateContextAttribsARB  = 34
	OpSetClientInfo2ARB        = 35
)

// Request is one decoded GLX extension request as handed over by the host
// server's request machinery. Data holds the raw request bytes including
// the 4-byte core header, so field offsets match the protocol encoding.
// Multi-byte fields are still in the client's byte order; the router swaps
// only the fields it reads itself.
type Request struct {
	Minor uint8
	Data  []byte
}

// Card32At reads the 32-bit field at the given byte offset, converting it
// to server byte order for a swapped client. The second result is false
// when the request is too short to contain the field.
func (r *Request) Card32At(off int, cl Client) (uint32, bool) {
	if off < 0 || off+4 > len(r.Data) {
		return 0, false
	}
	return CheckSwap(cl, binary.NativeEndian.Uint32(r.Data[off:])), true
}

// Reply is a protocol reply produced by the router or a vendor module.
// Data is the complete reply in the client's byte order, starting with the
// 32-byte fixed part; the host frames and transmits it unmodified.
type Reply struct {
	Data []byte
}

// newReplyBuf returns a zeroed reply buffer of the fixed 32-byte part plus
// extra bytes, with the reply type and the client's sequence number filled
// in. length is the reply length field in 4-byte units.
func newReplyBuf(cl Client, extra int, length uint32) []byte {
	b := make([]byte, 32+extra)
	b[0] = 1 // X_Reply
	seq := cl.Sequence()
	if cl.Swapped() {
		seq = Swap16(seq)
		length = Swap32(length)
	}
	binary.NativeEndian.PutUint16(b[2:], seq)
	binary.NativeEndian.PutUint32(b[4:], length)
	return b
}

// putCard32 stores a 32-bit reply field in the client's byte order.
func putCard32(cl Client, b []byte, off int, v uint32) {
	binary.NativeEndian.PutUint32(b[off:], CheckSwap(cl, v))
}
