package glxvnd

// clientData returns the client's context-tag table, allocating an empty
// one on first access.
func (s *State) clientData(cl Client) *clientState {
	cs, ok := s.clients[cl.Index()]
	if !ok {
		cs = &clientState{
			tags:    make(map[uint32]*ContextTag),
			nextTag: 1, // tag None is reserved
		}
		s.clients[cl.Index()] = cs
	}
	return cs
}

// LiveTags returns the number of live context tags for a client. Zero for
// a client with no state.
func (s *State) LiveTags(cl Client) int {
	cs, ok := s.clients[cl.Index()]
	if !ok {
		return 0
	}
	return len(cs.tags)
}

// FreeClientData destroys a client's context-tag table, releasing every
// contained record, and removes the client's slot. The host must call it
// exactly once per client, from its disconnect notification, after any
// in-flight request for the client has completed. Each live tag's vendor
// is given a LoseCurrent call before the record goes away.
func (s *State) FreeClientData(cl Client) {
	s.freeClientByIndex(cl.Index())
}

func (s *State) freeClientByIndex(index int) {
	cs, ok := s.clients[index]
	if !ok {
		return
	}
	for _, t := range cs.tags {
		if t.vendor != nil {
			t.vendor.LoseCurrent(t.client, t)
		}
		s.FreeContextTag(t)
	}
	delete(s.clients, index)
	s.log.Debug("client state freed", "client", index)
}
