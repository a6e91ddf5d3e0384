package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletop-backend/internal/model"
)

type recordingUplink struct {
	published []*model.Snapshot
	actions   [][]byte
}

func (u *recordingUplink) PublishSnapshot(snap *model.Snapshot) error {
	u.published = append(u.published, snap)
	return nil
}

func (u *recordingUplink) SubmitAction(action []byte) error {
	u.actions = append(u.actions, action)
	return nil
}

func TestSessionRoutesByRole(t *testing.T) {
	up := &recordingUplink{}
	st := NewState(nil)
	st.Add(card("A", 0, 0))

	guest := NewSession(st, up, false)
	require.NoError(t, guest.Commit([]byte(`{"op":"move"}`)))
	assert.Empty(t, up.published, "guest mutations go upward as action requests")
	require.Len(t, up.actions, 1)

	guest.PromoteToHost()
	require.NoError(t, guest.Commit(nil))
	require.Len(t, up.published, 1, "host mutations publish the whole snapshot")
	assert.Len(t, up.published[0].Objects, 1)
}

func TestSessionAdoptSnapshotReplacesWholesale(t *testing.T) {
	up := &recordingUplink{}
	st := NewState(nil)
	st.Add(card("local-only", 0, 0))

	sess := NewSession(st, up, false)
	sess.AdoptSnapshot(&model.Snapshot{Objects: []*model.TableObject{card("B", 5, 5)}})

	_, ok := sess.State().Get("local-only")
	assert.False(t, ok, "unacknowledged local edits are discarded")
	_, ok = sess.State().Get("B")
	assert.True(t, ok)
}
