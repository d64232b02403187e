package glxvnd

import (
	"fmt"
	"log/slog"
)

// ExtensionName is the protocol extension registered at Init.
const ExtensionName = "GLX"

// glxNumErrors is the number of error codes the extension reserves.
const glxNumErrors = 14

// xidResourceName is the resource type registered for XID ownership
// tracking.
const xidResourceName = "GLXVendorXID"

// DefaultMaxContextTags is the default maximum number of live context tags
// per client. Allocation beyond it fails with ErrOutOfMemory.
const DefaultMaxContextTags = 1 << 16

// State holds all mutable dispatch state: screen-vendor bindings, the XID
// ownership map, and per-client context-tag tables. Create one with New,
// register it with the host via Init, and tear it back down to a fresh
// state with Reset on a full server reset.
//
// State performs no locking; see the package documentation for the
// single-threaded dispatch requirement.
type State struct {
	host     Host
	log      *slog.Logger
	maxTags  int
	override ScreenVendorOverride

	initialized bool
	ext         ExtensionInfo
	resType     ResourceType

	screens []screenBinding
	xids    map[XID]Vendor
	clients map[int]*clientState
}

// Option configures a State during creation.
type Option func(*stateOptions)

type stateOptions struct {
	log      *slog.Logger
	maxTags  int
	override ScreenVendorOverride
}

// WithLogger sets the logger used by this State. By default the State
// shares the package logger configured via SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *stateOptions) {
		o.log = l
	}
}

// WithMaxContextTags overrides DefaultMaxContextTags.
func WithMaxContextTags(n int) Option {
	return func(o *stateOptions) {
		o.maxTags = n
	}
}

// WithScreenVendorOverride installs a per-client vendor selection hook
// consulted by VendorForClientScreen ahead of the screen binding.
func WithScreenVendorOverride(f ScreenVendorOverride) Option {
	return func(o *stateOptions) {
		o.override = f
	}
}

// New creates dispatch state for a server with numScreens screens. The
// returned State is inert until Init registers it with the host.
func New(host Host, numScreens int, opts ...Option) *State {
	options := stateOptions{maxTags: DefaultMaxContextTags}
	for _, opt := range opts {
		opt(&options)
	}
	if options.log == nil {
		options.log = Logger()
	}
	if options.maxTags <= 0 {
		options.maxTags = DefaultMaxContextTags
	}
	return &State{
		host:     host,
		log:      options.log,
		maxTags:  options.maxTags,
		override: options.override,
		screens:  make([]screenBinding, numScreens),
		xids:     make(map[XID]Vendor),
		clients:  make(map[int]*clientState),
	}
}

// Init registers the extension and the XID resource-destroy callback with
// the host. Calling Init twice without an intervening Reset is a
// programming error and fails.
func (s *State) Init() error {
	if s.initialized {
		return fmt.Errorf("glxvnd: Init called twice without Reset")
	}
	if err := s.register(); err != nil {
		return err
	}
	s.initialized = true
	s.log.Info("glxvnd initialized",
		"extension", s.ext.Name,
		"opcode", s.ext.MajorOpcode,
		"screens", len(s.screens))
	return nil
}

// register performs the host-facing registration shared by Init and Reset.
func (s *State) register() error {
	ext, err := s.host.AddExtension(ExtensionName, glxNumErrors)
	if err != nil {
		return fmt.Errorf("glxvnd: extension registration failed: %w", err)
	}
	resType, err := s.host.CreateResourceType(xidResourceName, s.dropXIDMap)
	if err != nil {
		return fmt.Errorf("glxvnd: resource type registration failed: %w", err)
	}
	s.ext = ext
	s.resType = resType
	return nil
}

// Extension returns the extension registration performed at Init, used by
// the host to answer QueryExtension requests.
func (s *State) Extension() ExtensionInfo {
	return s.ext
}

// Reset tears down all dispatch state on a full server reset: every
// client's context-tag table is destroyed, screen bindings and the XID
// ownership map are cleared, and the host callbacks are re-registered.
// The State afterwards is indistinguishable from one freshly created and
// initialized.
func (s *State) Reset() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	for index := range s.clients {
		s.freeClientByIndex(index)
	}
	for id := range s.xids {
		s.host.FreeResource(id, s.resType)
		delete(s.xids, id)
	}
	for i := range s.screens {
		s.screens[i] = screenBinding{}
	}
	if err := s.register(); err != nil {
		return err
	}
	s.log.Info("glxvnd reset")
	return nil
}
