// Package grouping partitions catalog records into duplicate groups keyed by
// base id. Each group has two slots, one for the vendor-qualified spelling of
// the id and one for the short spelling.
//
// Slots keep every candidate in input order. Picking the single occupant used
// downstream is an explicit Policy decision made at resolve time, and every
// slot holding more than one candidate is reported as a Collision.
package grouping

import (
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/owners"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Slot names used in diagnostics.
const (
	SlotWithOwner    = "with_owner"
	SlotWithoutOwner = "without_owner"
)

// Group holds the duplicate candidates for one base id.
type Group struct {
	BaseID       string
	WithOwner    []records.Record
	WithoutOwner []records.Record
}

// IsPair reports whether both slots are filled.
func (g *Group) IsPair() bool {
	return len(g.WithOwner) > 0 && len(g.WithoutOwner) > 0
}

// Ambiguous reports whether either slot holds more than one candidate.
func (g *Group) Ambiguous() bool {
	return len(g.WithOwner) > 1 || len(g.WithoutOwner) > 1
}

// Resolve picks the occupant of each slot according to policy. A nil record
// means the slot is empty.
func (g *Group) Resolve(policy Policy) (withOwner, withoutOwner records.Record, err error) {
	withOwner, err = pick(g.BaseID, SlotWithOwner, g.WithOwner, policy)
	if err != nil {
		return nil, nil, err
	}
	withoutOwner, err = pick(g.BaseID, SlotWithoutOwner, g.WithoutOwner, policy)
	if err != nil {
		return nil, nil, err
	}
	return withOwner, withoutOwner, nil
}

func pick(baseID, slot string, candidates []records.Record, policy Policy) (records.Record, error) {
	switch {
	case len(candidates) == 0:
		return nil, nil
	case len(candidates) == 1:
		return candidates[0], nil
	}

	switch policy {
	case PolicyFirstSeen:
		return candidates[0], nil
	case PolicyReject:
		return nil, errors.NewAmbiguousGroupError(baseID, slot, candidateIDs(candidates))
	default:
		return candidates[len(candidates)-1], nil
	}
}

// Collision describes a slot that received more than one record.
type Collision struct {
	BaseID string   `json:"base_id" yaml:"base_id"`
	Slot   string   `json:"slot" yaml:"slot"`
	IDs    []string `json:"ids" yaml:"ids"`
}

// Index maps base ids to duplicate groups.
type Index struct {
	set     owners.Set
	groups  map[string]*Group
	order   []string
	input   int
	skipped int
}

// Build groups records by base id. Records without a non-empty string id are
// skipped and only counted.
func Build(recs []records.Record, set owners.Set) *Index {
	idx := &Index{
		set:    set,
		groups: make(map[string]*Group),
		input:  len(recs),
	}
	for _, rec := range recs {
		idx.add(rec)
	}
	return idx
}

func (idx *Index) add(rec records.Record) {
	id, ok := rec.ID()
	if !ok {
		idx.skipped++
		return
	}

	identity := idx.set.Normalize(id)
	group, exists := idx.groups[identity.BaseID]
	if !exists {
		group = &Group{BaseID: identity.BaseID}
		idx.groups[identity.BaseID] = group
		idx.order = append(idx.order, identity.BaseID)
	}

	if identity.HasOwner {
		group.WithOwner = append(group.WithOwner, rec)
	} else {
		group.WithoutOwner = append(group.WithoutOwner, rec)
	}
}

// Owners returns the owner set the index was built with.
func (idx *Index) Owners() owners.Set {
	return idx.set
}

// Input returns the number of records offered to Build.
func (idx *Index) Input() int {
	return idx.input
}

// Skipped returns the number of records excluded for lacking an id.
func (idx *Index) Skipped() int {
	return idx.skipped
}

// Len returns the number of distinct base ids.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Get returns the group for baseID.
func (idx *Index) Get(baseID string) (*Group, bool) {
	g, ok := idx.groups[baseID]
	return g, ok
}

// Groups returns every group in first-appearance order of its base id.
func (idx *Index) Groups() []*Group {
	out := make([]*Group, 0, len(idx.order))
	for _, baseID := range idx.order {
		out = append(out, idx.groups[baseID])
	}
	return out
}

// Pairs returns the groups with both slots filled, in first-appearance order.
func (idx *Index) Pairs() []*Group {
	var out []*Group
	for _, baseID := range idx.order {
		if g := idx.groups[baseID]; g.IsPair() {
			out = append(out, g)
		}
	}
	return out
}

// Collisions lists every slot holding more than one candidate.
func (idx *Index) Collisions() []Collision {
	var out []Collision
	for _, baseID := range idx.order {
		g := idx.groups[baseID]
		if len(g.WithOwner) > 1 {
			out = append(out, Collision{BaseID: baseID, Slot: SlotWithOwner, IDs: candidateIDs(g.WithOwner)})
		}
		if len(g.WithoutOwner) > 1 {
			out = append(out, Collision{BaseID: baseID, Slot: SlotWithoutOwner, IDs: candidateIDs(g.WithoutOwner)})
		}
	}
	return out
}

func candidateIDs(recs []records.Record) []string {
	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i], _ = rec.ID()
	}
	return ids
}
