// Command glxvnddemo demonstrates the glxvnd dispatch layer: it wires an
// in-process host and the swrast software vendor, then replays a typical
// GLX request stream through the router with logging enabled.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/swrast"
)

// demoHost is a minimal stand-in for the display server's extension and
// resource facilities.
type demoHost struct {
	destructor func(glxvnd.XID)
	tracked    map[glxvnd.XID]glxvnd.ResourceType
}

func (h *demoHost) AddExtension(name string, numErrors int) (glxvnd.ExtensionInfo, error) {
	return glxvnd.ExtensionInfo{Name: name, MajorOpcode: 152, EventBase: 80, ErrorBase: 130}, nil
}

func (h *demoHost) CreateResourceType(name string, destructor func(glxvnd.XID)) (glxvnd.ResourceType, error) {
	h.destructor = destructor
	return 1, nil
}

func (h *demoHost) AddResource(id glxvnd.XID, t glxvnd.ResourceType) error {
	h.tracked[id] = t
	return nil
}

func (h *demoHost) FreeResource(id glxvnd.XID, t glxvnd.ResourceType) {
	delete(h.tracked, id)
}

// demoClient is one simulated connection.
type demoClient struct {
	index int
	seq   uint16
}

func (c *demoClient) Index() int       { return c.index }
func (c *demoClient) Swapped() bool    { return false }
func (c *demoClient) Sequence() uint16 { return c.seq }

func request(minor uint8, fields ...uint32) *glxvnd.Request {
	data := make([]byte, 4+4*len(fields))
	for i, f := range fields {
		binary.NativeEndian.PutUint32(data[4+4*i:], f)
	}
	return &glxvnd.Request{Minor: minor, Data: data}
}

func main() {
	var (
		screens = flag.Int("screens", 1, "number of screens")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	glxvnd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	host := &demoHost{tracked: make(map[glxvnd.XID]glxvnd.ResourceType)}
	state := glxvnd.New(host, *screens)
	if err := state.Init(); err != nil {
		log.Fatalf("init: %v", err)
	}

	vendor := swrast.New()
	for i := 0; i < *screens; i++ {
		if err := state.BindScreen(i, vendor); err != nil {
			log.Fatalf("bind screen %d: %v", i, err)
		}
	}

	cl := &demoClient{index: 1}
	const (
		ctxID  = 0x300
		drawID = 0x400
	)

	steps := []struct {
		name string
		req  *glxvnd.Request
	}{
		{"QueryVersion", request(glxvnd.OpQueryVersion, 1, 4)},
		{"ClientInfo", request(glxvnd.OpClientInfo, 1, 4)},
		{"CreateContext", request(glxvnd.OpCreateContext, ctxID, 0x21, 0)},
		{"CreatePixmap", request(glxvnd.OpCreatePixmap, 0, 0x42, 0x999, drawID)},
	}

	var tag uint32
	for _, step := range steps {
		cl.seq++
		reply, err := state.Dispatch(cl, step.req)
		report(state, step.name, reply, err)
	}

	cl.seq++
	reply, err := state.Dispatch(cl, request(glxvnd.OpMakeCurrent, drawID, ctxID, glxvnd.None))
	report(state, "MakeCurrent", reply, err)
	if err == nil {
		tag = binary.NativeEndian.Uint32(reply.Data[8:])
	}

	for _, step := range []struct {
		name string
		req  *glxvnd.Request
	}{
		{"Render", request(glxvnd.OpRender, tag)},
		{"SwapBuffers", request(glxvnd.OpSwapBuffers, tag, drawID)},
		{"MakeCurrent(None)", request(glxvnd.OpMakeCurrent, glxvnd.None, glxvnd.None, tag)},
		{"DestroyPixmap", request(glxvnd.OpDestroyPixmap, drawID)},
		{"DestroyContext", request(glxvnd.OpDestroyContext, ctxID)},
	} {
		cl.seq++
		reply, err := state.Dispatch(cl, step.req)
		report(state, step.name, reply, err)
	}

	state.FreeClientData(cl)
	log.Printf("done: %d resources still tracked", len(host.tracked))
}

func report(state *glxvnd.State, name string, reply *glxvnd.Reply, err error) {
	switch {
	case err != nil:
		log.Printf("%-18s -> error %d (%v)", name, state.ErrorCode(err), err)
	case reply != nil:
		log.Printf("%-18s -> %d reply bytes", name, len(reply.Data))
	default:
		log.Printf("%-18s -> ok", name)
	}
}
