package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
)

// OptimizeBackings clusters nearby backings into installation zones so
// that blocking for adjacent fixtures can be cut and installed as one
// piece. Two backings join the same zone when their footprint centers
// are within settings.GroupingDistance and their materials are
// compatible. Every input backing lands in exactly one zone; backings
// with no neighbor form singleton zones.
//
// Zone ids are assigned in the order components are discovered while
// walking the input slice, so output is deterministic for a given
// input ordering.
func OptimizeBackings(backings []model.BackingPlacement, settings model.OptimizeSettings) ([]model.BackingZone, error) {
	zones, err := OptimizeBackingsCtx(context.Background(), backings, settings, nil)
	return zones, err
}

// OptimizeBackingsCtx is OptimizeBackings with cooperative cancellation
// and progress reporting. The context is checked between clustering
// phases; progress (0-100) fires as each phase completes.
func OptimizeBackingsCtx(ctx context.Context, backings []model.BackingPlacement, settings model.OptimizeSettings, progress func(int)) ([]model.BackingZone, error) {
	if settings.GroupingDistance < 0 {
		return nil, fmt.Errorf("grouping distance must be non-negative, got %g", settings.GroupingDistance)
	}
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}
	report(0)

	if len(backings) == 0 {
		report(100)
		return []model.BackingZone{}, nil
	}

	centers := make([]geometry.Point, len(backings))
	for i, b := range backings {
		centers[i] = b.Rect().Center()
	}
	report(20)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Single-link clustering: union every compatible pair within the
	// grouping distance, then read the components back off.
	uf := newUnionFind(len(backings))
	if settings.OptimizeForSpeed && settings.GroupingDistance > 0 {
		unionByGrid(uf, backings, centers, settings)
	} else {
		for i := 0; i < len(backings); i++ {
			for j := i + 1; j < len(backings); j++ {
				if canGroup(backings[i], backings[j], centers[i], centers[j], settings) {
					uf.union(i, j)
				}
			}
		}
	}
	report(70)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zones := collectZones(backings, uf)
	report(100)
	return zones, nil
}

// canGroup decides whether two backings may share a zone.
func canGroup(a, b model.BackingPlacement, ca, cb geometry.Point, settings model.OptimizeSettings) bool {
	if geometry.Distance(ca, cb) > settings.GroupingDistance {
		return false
	}
	if a.BackingType == b.BackingType {
		return true
	}
	if !settings.AllowCombining {
		return false
	}
	// Even when combining materials, never mix load classes that differ
	// in their structural-wall requirement.
	if settings.MaintainStructural {
		sa := model.SpecFor(a.BackingType)
		sb := model.SpecFor(b.BackingType)
		if sa.RequiresStructural != sb.RequiresStructural {
			return false
		}
	}
	return true
}

// unionByGrid buckets backings into GroupingDistance-sized cells and
// only compares neighbors in adjacent cells. Same result as the full
// pairwise scan (any pair within the distance shares adjacent cells),
// but near-linear for large, spread-out drawings.
func unionByGrid(uf *unionFind, backings []model.BackingPlacement, centers []geometry.Point, settings model.OptimizeSettings) {
	cell := settings.GroupingDistance
	type cellKey struct{ cx, cy int }
	grid := make(map[cellKey][]int)

	keyFor := func(p geometry.Point) cellKey {
		return cellKey{cx: int(p.X / cell), cy: int(p.Y / cell)}
	}
	for i, c := range centers {
		k := keyFor(c)
		grid[k] = append(grid[k], i)
	}

	for i, c := range centers {
		k := keyFor(c)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[cellKey{k.cx + dx, k.cy + dy}] {
					if j <= i {
						continue
					}
					if canGroup(backings[i], backings[j], c, centers[j], settings) {
						uf.union(i, j)
					}
				}
			}
		}
	}
}

// collectZones materializes one BackingZone per connected component,
// numbering zones in first-seen input order.
func collectZones(backings []model.BackingPlacement, uf *unionFind) []model.BackingZone {
	zoneIndex := make(map[int]int)
	var zones []model.BackingZone

	for i, b := range backings {
		root := uf.find(i)
		idx, ok := zoneIndex[root]
		if !ok {
			idx = len(zones)
			zoneIndex[root] = idx
			zones = append(zones, model.BackingZone{
				ID:           fmt.Sprintf("zone-%d", idx+1),
				MaterialType: b.BackingType,
			})
		}

		z := &zones[idx]
		member := b
		member.Optimized = true
		member.ZoneID = z.ID

		r := b.Rect()
		if len(z.Backings) == 0 {
			z.Bounds = r
		} else {
			z.Bounds = geometry.Union(z.Bounds, r)
		}
		z.TotalArea += r.Area()
		if member.BackingType != z.MaterialType {
			z.MaterialType = "mixed"
		}
		z.Backings = append(z.Backings, member)
	}

	for i := range zones {
		zones[i].Center = zones[i].Bounds.Center()
	}
	return zones
}

// unionFind is a standard disjoint-set with path compression and union
// by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(i, j int) {
	ri, rj := uf.find(i), uf.find(j)
	if ri == rj {
		return
	}
	if uf.size[ri] < uf.size[rj] {
		ri, rj = rj, ri
	}
	uf.parent[rj] = ri
	uf.size[ri] += uf.size[rj]
}
