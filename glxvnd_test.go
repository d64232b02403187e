package glxvnd

import (
	"encoding/binary"
	"errors"
	"testing"
)

// fakeClient implements Client for tests.
type fakeClient struct {
	index   int
	swapped bool
	seq     uint16
}

func (c *fakeClient) Index() int       { return c.index }
func (c *fakeClient) Swapped() bool    { return c.swapped }
func (c *fakeClient) Sequence() uint16 { return c.seq }

// fakeHost records extension and resource registrations and can simulate
// the host destroying a tracked resource.
type fakeHost struct {
	extensions      []string
	destructors     map[ResourceType]func(XID)
	tracked         map[XID]ResourceType
	nextType        ResourceType
	failAddResource bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		destructors: make(map[ResourceType]func(XID)),
		tracked:     make(map[XID]ResourceType),
		nextType:    1,
	}
}

func (h *fakeHost) AddExtension(name string, numErrors int) (ExtensionInfo, error) {
	h.extensions = append(h.extensions, name)
	return ExtensionInfo{
		Name:        name,
		MajorOpcode: 152,
		EventBase:   80,
		ErrorBase:   130,
	}, nil
}

func (h *fakeHost) CreateResourceType(name string, destructor func(XID)) (ResourceType, error) {
	t := h.nextType
	h.nextType++
	h.destructors[t] = destructor
	return t, nil
}

func (h *fakeHost) AddResource(id XID, t ResourceType) error {
	if h.failAddResource {
		return errors.New("resource table full")
	}
	h.tracked[id] = t
	return nil
}

func (h *fakeHost) FreeResource(id XID, t ResourceType) {
	delete(h.tracked, id)
}

// destroyResource simulates the host's resource manager destroying the
// underlying resource, which runs the registered destructor.
func (h *fakeHost) destroyResource(id XID) {
	t, ok := h.tracked[id]
	if !ok {
		return
	}
	delete(h.tracked, id)
	h.destructors[t](id)
}

// fakeVendor implements Vendor and records every call.
type fakeVendor struct {
	name string

	createdContexts   []XID
	destroyedContexts []XID
	createdDrawables  []XID
	destroyedDrawable []XID
	madeCurrent       int
	lostCurrent       int
	handledOps        []uint8

	failCreate      bool
	failMakeCurrent bool
	reply           *Reply
}

func (v *fakeVendor) Name() string { return v.name }

func (v *fakeVendor) CreateContext(cl Client, screen int, ctx XID, req *Request) error {
	if v.failCreate {
		return errors.New("vendor rejected context")
	}
	v.createdContexts = append(v.createdContexts, ctx)
	return nil
}

func (v *fakeVendor) DestroyContext(cl Client, ctx XID, req *Request) error {
	v.destroyedContexts = append(v.destroyedContexts, ctx)
	return nil
}

func (v *fakeVendor) CreateDrawable(cl Client, screen int, draw XID, kind DrawableKind, req *Request) error {
	if v.failCreate {
		return errors.New("vendor rejected drawable")
	}
	v.createdDrawables = append(v.createdDrawables, draw)
	return nil
}

func (v *fakeVendor) DestroyDrawable(cl Client, draw XID, req *Request) error {
	v.destroyedDrawable = append(v.destroyedDrawable, draw)
	return nil
}

func (v *fakeVendor) MakeCurrent(cl Client, tag *ContextTag) error {
	if v.failMakeCurrent {
		return errors.New("vendor rejected binding")
	}
	v.madeCurrent++
	tag.SetPrivate(v.name)
	return nil
}

func (v *fakeVendor) LoseCurrent(cl Client, tag *ContextTag) {
	v.lostCurrent++
}

func (v *fakeVendor) HandleRequest(cl Client, req *Request) (*Reply, error) {
	v.handledOps = append(v.handledOps, req.Minor)
	return v.reply, nil
}

// glxRequest builds a request with the given 32-bit fields starting at
// offset 4, in server byte order.
func glxRequest(minor uint8, fields ...uint32) *Request {
	data := make([]byte, 4+4*len(fields))
	for i, f := range fields {
		binary.NativeEndian.PutUint32(data[4+4*i:], f)
	}
	return &Request{Minor: minor, Data: data}
}

// swappedGLXRequest builds the same request with every field byte-swapped,
// as received from a swapped client.
func swappedGLXRequest(minor uint8, fields ...uint32) *Request {
	data := make([]byte, 4+4*len(fields))
	for i, f := range fields {
		binary.NativeEndian.PutUint32(data[4+4*i:], Swap32(f))
	}
	return &Request{Minor: minor, Data: data}
}

// newTestState creates an initialized State over a fresh fake host.
func newTestState(t *testing.T, numScreens int, opts ...Option) (*State, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	s := New(host, numScreens, opts...)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s, host
}
