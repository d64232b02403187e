package glxvnd

import "fmt"

// AddXIDMap records that a vendor module owns the object named by id, and
// attaches the host's resource tracking so that destroying the underlying
// resource removes the mapping automatically. At most one vendor may own
// an identifier: inserting over an existing mapping fails with
// ErrAlreadyMapped and leaves the map unchanged.
func (s *State) AddXIDMap(id XID, v Vendor) error {
	if id == None {
		return fmt.Errorf("glxvnd: cannot map XID None")
	}
	if v == nil {
		return fmt.Errorf("glxvnd: vendor must not be nil")
	}
	if _, ok := s.xids[id]; ok {
		return ErrAlreadyMapped
	}
	if err := s.host.AddResource(id, s.resType); err != nil {
		return fmt.Errorf("glxvnd: resource tracking for xid %#x failed: %w", uint32(id), err)
	}
	s.xids[id] = v
	s.log.Debug("xid mapped", "xid", uint32(id), "vendor", v.Name())
	return nil
}

// XIDMap returns the vendor module that owns the object named by id, or
// nil when no mapping exists.
func (s *State) XIDMap(id XID) Vendor {
	return s.xids[id]
}

// RemoveXIDMap removes the ownership mapping for id and detaches the
// host's resource tracking. Removal is idempotent: an absent id is a
// no-op, since the resource-destroy callback and an explicit removal may
// arrive in either order.
func (s *State) RemoveXIDMap(id XID) {
	if _, ok := s.xids[id]; !ok {
		return
	}
	delete(s.xids, id)
	s.host.FreeResource(id, s.resType)
	s.log.Debug("xid unmapped", "xid", uint32(id))
}

// dropXIDMap is the resource-destroy callback registered at Init. The
// host has already destroyed the resource, so only the mapping is
// removed; no FreeResource call back into the host.
func (s *State) dropXIDMap(id XID) {
	if _, ok := s.xids[id]; !ok {
		return
	}
	delete(s.xids, id)
	s.log.Debug("xid unmapped by resource destruction", "xid", uint32(id))
}
