package planning

// =============================================================================
// REQUIREMENT GROUPING - Presentation helper
// =============================================================================

// RequirementGroup is one node in the parent/child presentation tree: a
// top-level requirement with its auto-generated children attached.
type RequirementGroup struct {
	Requirement Requirement
	Children    []Requirement

	// Orphaned marks a child whose declared parent is not present in the
	// input set. Orphans are surfaced as top-level groups, never dropped.
	Orphaned bool
}

// GroupRequirements assembles flat requirement rows into parent/child
// groups. Requirements without a ParentRequirementID are parents, in
// input order; children attach to their parent by id; children whose
// parent is missing from the input become top-level orphaned groups
// after the parents. Pure, read-only.
func GroupRequirements(flat []Requirement) []RequirementGroup {
	index := make(map[RequirementID]int)
	var groups []RequirementGroup

	for _, req := range flat {
		if req.ParentRequirementID == "" {
			index[req.ID] = len(groups)
			groups = append(groups, RequirementGroup{Requirement: req})
		}
	}

	var orphans []RequirementGroup
	for _, req := range flat {
		if req.ParentRequirementID == "" {
			continue
		}
		if i, ok := index[req.ParentRequirementID]; ok {
			groups[i].Children = append(groups[i].Children, req)
		} else {
			orphans = append(orphans, RequirementGroup{Requirement: req, Orphaned: true})
		}
	}

	return append(groups, orphans...)
}
