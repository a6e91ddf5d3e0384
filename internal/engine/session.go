package engine

import "tabletop-backend/internal/model"

// Uplink is the relay as the engine sees it. The host publishes whole
// snapshots; guests submit opaque action requests and wait for the next
// snapshot to reconcile (fire-and-forget, no cancellation).
type Uplink interface {
	PublishSnapshot(snap *model.Snapshot) error
	SubmitAction(action []byte) error
}

// Session routes every local mutation either downward as an
// authoritative broadcast (host) or upward as an action request
// (guest). Hit testing elsewhere must only ever see s.State(), the most
// recently synchronized working copy.
type Session struct {
	state  *State
	uplink Uplink
	isHost bool
}

// NewSession wraps a working state with its routing role.
func NewSession(state *State, uplink Uplink, isHost bool) *Session {
	return &Session{state: state, uplink: uplink, isHost: isHost}
}

// State exposes the working copy for hit testing and mutation.
func (s *Session) State() *State {
	return s.state
}

// IsHost reports whether local mutations are authoritative.
func (s *Session) IsHost() bool {
	return s.isHost
}

// PromoteToHost flips the routing role after a BECAME_HOST notice. The
// current working copy becomes authoritative as-is.
func (s *Session) PromoteToHost() {
	s.isHost = true
}

// Commit routes the outcome of a local mutation. On the host the
// working state is published verbatim; on a guest the action request is
// forwarded and the local copy stays provisional until the next
// snapshot replaces it.
func (s *Session) Commit(action []byte) error {
	if s.isHost {
		return s.uplink.PublishSnapshot(s.state.Snapshot())
	}
	return s.uplink.SubmitAction(action)
}

// AdoptSnapshot replaces the working copy wholesale with an incoming
// authoritative snapshot. Guests never apply snapshots partially.
func (s *Session) AdoptSnapshot(snap *model.Snapshot) {
	s.state.Replace(snap)
}
