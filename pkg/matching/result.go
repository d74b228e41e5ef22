package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Stats describes the work done by one run.
type Stats struct {
	Records        int           `json:"records"`
	Buckets        int           `json:"buckets"`
	LargestBucket  int           `json:"largest_bucket"`
	SkippedBuckets int           `json:"skipped_buckets"`
	CandidatePairs int           `json:"candidate_pairs"`
	Comparisons    int           `json:"comparisons"`
	Matches        int           `json:"matches"`
	Duration       time.Duration `json:"duration"`
}

// Result is the outcome of one run. Matches are ordered by descending
// score, then by record IDs.
type Result struct {
	RunID     string         `json:"run_id"`
	Profile   string         `json:"profile"`
	State     State          `json:"state"`
	Threshold float64        `json:"threshold"`
	Matches   []models.Match `json:"matches"`
	Stats     Stats          `json:"stats"`
}

// Clusters groups records connected by matches, directly or transitively.
// Records without a match are left out. Cluster IDs depend only on their
// members, so the same group gets the same ID in every run.
func (r *Result) Clusters() []models.Cluster {
	uf := newUnionFind()
	for _, m := range r.Matches {
		uf.union(m.LeftID, m.RightID)
	}

	members := map[string][]string{}
	best := map[string]float64{}
	for _, m := range r.Matches {
		root := uf.find(m.LeftID)
		best[root] = max(best[root], m.Score)
	}
	for id := range uf.parent {
		root := uf.find(id)
		members[root] = append(members[root], id)
	}

	clusters := make([]models.Cluster, 0, len(members))
	for root, ids := range members {
		sort.Strings(ids)
		clusters = append(clusters, models.Cluster{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(ids, "\x00"))).String(),
			RecordIDs: ids,
			MaxScore:  best[root],
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].RecordIDs[0] < clusters[j].RecordIDs[0]
	})
	return clusters
}

func sortMatches(matches []models.Match) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.LeftID != b.LeftID {
			return a.LeftID < b.LeftID
		}
		return a.RightID < b.RightID
	})
}

type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[string]string{}, rank: map[string]int{}}
}

func (u *unionFind) find(id string) string {
	parent, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if parent == id {
		return id
	}
	root := u.find(parent)
	u.parent[id] = root
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
