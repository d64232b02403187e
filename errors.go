package glxvnd

import "errors"

// Dispatch and table errors. All of these surface to the client as
// protocol error replies; none are fatal to the server.
var (
	// ErrNotInitialized is returned when Dispatch or a table operation is
	// called before Init.
	ErrNotInitialized = errors.New("glxvnd: not initialized")

	// ErrNoVendor indicates that no vendor module owns the request's
	// target screen, drawable, context, or XID.
	ErrNoVendor = errors.New("glxvnd: no vendor for target")

	// ErrAlreadyMapped indicates a duplicate XID ownership insertion.
	ErrAlreadyMapped = errors.New("glxvnd: xid already mapped")

	// ErrTagNotFound indicates a context-tag lookup miss.
	ErrTagNotFound = errors.New("glxvnd: context tag not found")

	// ErrOutOfMemory indicates that a table allocation failed, for example
	// the per-client context-tag table reached its maximum.
	ErrOutOfMemory = errors.New("glxvnd: table allocation failed")

	// ErrBadRequest indicates an unrecognized GLX minor opcode.
	ErrBadRequest = errors.New("glxvnd: unrecognized request opcode")

	// ErrScreenBound is returned by BindScreen for a screen that already
	// has a vendor. Use RebindScreen on the server-reset path.
	ErrScreenBound = errors.New("glxvnd: screen already has a vendor")

	// ErrVendorMismatch is returned when a single request would have to
	// splice state owned by two different vendor modules, for example
	// rebinding a current context to another vendor's context.
	ErrVendorMismatch = errors.New("glxvnd: request spans two vendors")
)

// Core X protocol error codes used in error replies.
const (
	CodeBadRequest        = 1
	CodeBadValue          = 2
	CodeBadMatch          = 8
	CodeBadAccess         = 10
	CodeBadAlloc          = 11
	CodeBadIDChoice       = 14
	CodeBadLength         = 16
	CodeBadImplementation = 17
)

// glxBadContextTag is the GLXBadContextTag code relative to the
// extension's error base.
const glxBadContextTag = 4

// ProtocolError wraps a dispatch error with the exact X error code to
// report to the client.
type ProtocolError struct {
	Code uint8
	Err  error
}

func (e *ProtocolError) Error() string { return e.Err.Error() }

func (e *ProtocolError) Unwrap() error { return e.Err }

// protoErr builds a ProtocolError around one of the sentinel errors.
func protoErr(code uint8, err error) error {
	return &ProtocolError{Code: code, Err: err}
}

// ErrorCode maps a Dispatch error to the X error code for the error reply.
// Codes for tag errors are relative to the extension error base assigned
// at Init, so this is a State method rather than a plain function.
func (s *State) ErrorCode(err error) uint8 {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code
	}
	switch {
	case errors.Is(err, ErrTagNotFound):
		return s.ext.ErrorBase + glxBadContextTag
	case errors.Is(err, ErrNoVendor):
		return CodeBadMatch
	case errors.Is(err, ErrAlreadyMapped):
		return CodeBadIDChoice
	case errors.Is(err, ErrOutOfMemory):
		return CodeBadAlloc
	case errors.Is(err, ErrBadRequest):
		return CodeBadRequest
	case errors.Is(err, ErrVendorMismatch):
		return CodeBadAccess
	}
	return CodeBadImplementation
}
