package interval

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/hexvec/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	s := New[string](32)
	require.NoError(t, s.Insert(entry("a", 0, 3)))
	require.NoError(t, s.Insert(entry("b", 10, 11)))

	snap := s.Snapshot()
	assert.Equal(t, uint64(32), snap.Capacity)
	assert.Len(t, snap.Nodes, 4)
	assert.Equal(t, uint64(0), snap.Nodes[2].Head)
	assert.Nil(t, snap.Nodes[2].Entry)

	t.Run("Restore", func(t *testing.T) {
		restored, err := Restore(snap)
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), restored.Snapshot())
		assert.Equal(t, 2, restored.Len())

		got, ok := restored.Get(1)
		require.True(t, ok)
		assert.Equal(t, "a", got.Payload)
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(snap)
		require.NoError(t, err)

		var decoded Snapshot[string]
		require.NoError(t, json.Unmarshal(data, &decoded))

		restored, err := Restore(decoded)
		require.NoError(t, err)
		assert.Equal(t, snap, restored.Snapshot())
	})

	t.Run("Detached", func(t *testing.T) {
		snap := s.Snapshot()
		p, _ := s.GetMut(0)
		*p = "changed"
		assert.Equal(t, "a", snap.Nodes[0].Entry.Payload)
	})
}

func TestRestoreRejectsCorruption(t *testing.T) {
	head := func(name string, start, end uint64) Node[string] {
		e := model.NewEntry(name, model.NewRange(start, end))
		return Node[string]{Entry: &e, Head: start}
	}

	tests := []struct {
		name  string
		nodes map[uint64]Node[string]
	}{
		{"MissingBody", map[uint64]Node[string]{0: head("a", 0, 3), 1: {Head: 0}}},
		{"DanglingBody", map[uint64]Node[string]{5: {Head: 4}}},
		{"BodyOutsideHead", map[uint64]Node[string]{0: head("a", 0, 2), 1: {Head: 0}, 2: {Head: 0}}},
		{"MisplacedHead", map[uint64]Node[string]{1: head("a", 0, 1)}},
		{"EmptyRange", map[uint64]Node[string]{3: head("a", 3, 3)}},
		{"BeyondCapacity", map[uint64]Node[string]{7: head("a", 7, 9), 8: {Head: 7}}},
		{"Overlap", map[uint64]Node[string]{0: head("a", 0, 3), 1: head("b", 1, 2), 2: {Head: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(Snapshot[string]{Capacity: 8, Nodes: tt.nodes})
			assert.ErrorIs(t, err, model.ErrCorruptSnapshot)
		})
	}
}
