package pricing

import "sort"

// HashedObservation is the (id, hash) projection of an active observation.
type HashedObservation struct {
	ID   int64
	Hash string
}

// DuplicateGroup is a set of observations sharing one identity hash.
type DuplicateGroup struct {
	Hash  string  `json:"hash"`
	IDs   []int64 `json:"ids"`
	Count int     `json:"count"`
}

// FindDuplicateGroups groups observation ids by hash and returns the groups
// with more than one member, ordered by count descending (hash ascending on
// ties, so output is stable). Pure read-side aggregation.
func FindDuplicateGroups(observations []HashedObservation) []DuplicateGroup {
	byHash := make(map[string][]int64)
	for _, o := range observations {
		byHash[o.Hash] = append(byHash[o.Hash], o.ID)
	}

	groups := make([]DuplicateGroup, 0)
	for hash, ids := range byHash {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		groups = append(groups, DuplicateGroup{Hash: hash, IDs: ids, Count: len(ids)})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Hash < groups[j].Hash
	})

	return groups
}
