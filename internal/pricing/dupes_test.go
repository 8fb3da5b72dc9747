package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicateGroups(t *testing.T) {
	observations := []HashedObservation{
		{ID: 1, Hash: "aaa"},
		{ID: 2, Hash: "bbb"},
		{ID: 3, Hash: "aaa"},
		{ID: 4, Hash: "ccc"},
		{ID: 5, Hash: "aaa"},
		{ID: 6, Hash: "bbb"},
	}

	groups := FindDuplicateGroups(observations)

	require.Len(t, groups, 2)

	assert.Equal(t, "aaa", groups[0].Hash)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, []int64{1, 3, 5}, groups[0].IDs)

	assert.Equal(t, "bbb", groups[1].Hash)
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, []int64{2, 6}, groups[1].IDs)
}

func TestFindDuplicateGroupsNoDuplicates(t *testing.T) {
	observations := []HashedObservation{
		{ID: 1, Hash: "aaa"},
		{ID: 2, Hash: "bbb"},
	}

	assert.Empty(t, FindDuplicateGroups(observations))
}

func TestFindDuplicateGroupsEmptyInput(t *testing.T) {
	assert.Empty(t, FindDuplicateGroups(nil))
}

func TestFindDuplicateGroupsStableOrderOnEqualCounts(t *testing.T) {
	observations := []HashedObservation{
		{ID: 1, Hash: "zzz"},
		{ID: 2, Hash: "zzz"},
		{ID: 3, Hash: "aaa"},
		{ID: 4, Hash: "aaa"},
	}

	groups := FindDuplicateGroups(observations)

	require.Len(t, groups, 2)
	assert.Equal(t, "aaa", groups[0].Hash)
	assert.Equal(t, "zzz", groups[1].Hash)
}
