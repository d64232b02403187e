package glxvnd

// Client represents one connected display-server client. The host server
// owns the connection; the dispatch layer needs only the client's slot
// number, byte-order flag, and current request sequence number.
//
// Implementations must keep Index stable for the lifetime of the
// connection; it keys the per-client context-tag table.
type Client interface {
	// Index returns the host server's slot number for this client.
	Index() int

	// Swapped reports whether the client's byte order differs from the
	// server's native order.
	Swapped() bool

	// Sequence returns the sequence number of the request currently being
	// processed, used in replies the router builds itself.
	Sequence() uint16
}

// ExtensionInfo describes the protocol extension as registered with the
// host server. The host assigns the opcodes; the dispatch layer records
// them to build error replies and answer QueryExtension-style requests.
type ExtensionInfo struct {
	Name        string
	MajorOpcode uint8
	EventBase   uint8
	ErrorBase   uint8
}

// ResourceType tags resources tracked by the host's generic resource
// manager. The dispatch layer registers one type whose destructor feeds
// RemoveXIDMap.
type ResourceType uint32

// Host is the boundary to the embedding display server: extension
// registration and generic resource-lifetime tracking. The host owns both
// facilities; the dispatch layer only registers with them.
type Host interface {
	// AddExtension registers a named protocol extension reserving
	// numErrors error codes, and returns the assigned opcodes.
	AddExtension(name string, numErrors int) (ExtensionInfo, error)

	// CreateResourceType registers a resource destructor under a fresh
	// resource type. The destructor is invoked with the identifier of
	// each destroyed resource of that type.
	CreateResourceType(name string, destructor func(XID)) (ResourceType, error)

	// AddResource attaches tracking of type t to the identifier, so that
	// destroying the underlying resource runs t's destructor.
	AddResource(id XID, t ResourceType) error

	// FreeResource detaches tracking of type t from the identifier
	// without destroying the underlying resource. Unknown ids are a no-op.
	FreeResource(id XID, t ResourceType)
}
