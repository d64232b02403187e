package glxvnd

import "fmt"

// screenBinding holds a screen's vendor. Set once during screen
// initialization; read-only afterward until a server reset.
type screenBinding struct {
	vendor Vendor
}

// BindScreen binds a vendor module to a screen. A screen accepts exactly
// one binding; rebinding an already-bound screen fails with ErrScreenBound.
// On the server-reset path use RebindScreen instead.
func (s *State) BindScreen(screen int, v Vendor) error {
	if screen < 0 || screen >= len(s.screens) {
		return fmt.Errorf("glxvnd: screen %d out of range", screen)
	}
	if v == nil {
		return fmt.Errorf("glxvnd: vendor must not be nil")
	}
	if s.screens[screen].vendor != nil {
		return ErrScreenBound
	}
	s.screens[screen].vendor = v
	s.log.Info("screen bound", "screen", screen, "vendor", v.Name())
	return nil
}

// RebindScreen binds a vendor to a screen, overwriting any existing
// binding. Only the server-reset path may use it.
func (s *State) RebindScreen(screen int, v Vendor) error {
	if screen < 0 || screen >= len(s.screens) {
		return fmt.Errorf("glxvnd: screen %d out of range", screen)
	}
	if v == nil {
		return fmt.Errorf("glxvnd: vendor must not be nil")
	}
	s.screens[screen].vendor = v
	s.log.Info("screen rebound", "screen", screen, "vendor", v.Name())
	return nil
}

// VendorForScreen returns the vendor bound to a screen, or nil when the
// screen is unbound or out of range. Pure lookup, no side effects.
func (s *State) VendorForScreen(screen int) Vendor {
	if screen < 0 || screen >= len(s.screens) {
		return nil
	}
	return s.screens[screen].vendor
}

// VendorForClientScreen returns the vendor handling a client's requests on
// a screen. A ScreenVendorOverride installed at New is consulted first;
// without one, or when it returns nil, the screen binding applies.
func (s *State) VendorForClientScreen(cl Client, screen int) Vendor {
	if s.override != nil {
		if v := s.override(cl, screen); v != nil {
			return v
		}
	}
	return s.VendorForScreen(screen)
}
