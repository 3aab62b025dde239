package models

import (
	"fmt"
	"sort"

	"github.com/disgoorg/snowflake/v2"
)

// Catalog is the immutable set of managed roles plus the eligibility table.
// Roles are keyed by identifier; names are only used to find roles in a
// guild that predates the pinned ids.
type Catalog struct {
	version     string
	defs        []RoleDefinition
	byID        map[snowflake.ID]RoleDefinition
	byName      map[string]RoleDefinition
	badges      map[int]RoleDefinition
	tiers       []RoleDefinition // ascending threshold
	eligibility map[snowflake.ID]EligibilityRole
}

// NewCatalog validates and indexes the definitions.
func NewCatalog(version string, defs []RoleDefinition, eligibility []EligibilityRole) (*Catalog, error) {
	c := &Catalog{
		version:     version,
		defs:        make([]RoleDefinition, 0, len(defs)),
		byID:        make(map[snowflake.ID]RoleDefinition, len(defs)),
		byName:      make(map[string]RoleDefinition, len(defs)),
		badges:      make(map[int]RoleDefinition),
		eligibility: make(map[snowflake.ID]EligibilityRole, len(eligibility)),
	}

	thresholds := make(map[int]bool)
	for _, d := range defs {
		if d.ID == 0 {
			return nil, fmt.Errorf("role %q: missing id", d.Name)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("role %s: missing name", d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("role %s: duplicate id", d.ID)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("role %q: duplicate name", d.Name)
		}

		switch d.Category {
		case CategoryBadge:
			if d.Milestone <= 0 {
				return nil, fmt.Errorf("badge %q: milestone must be positive", d.Name)
			}
			if _, dup := c.badges[d.Milestone]; dup {
				return nil, fmt.Errorf("badge %q: duplicate milestone %d", d.Name, d.Milestone)
			}
			c.badges[d.Milestone] = d
		case CategoryNFTTier:
			if d.Threshold <= 0 {
				return nil, fmt.Errorf("nft tier %q: threshold must be positive", d.Name)
			}
			if thresholds[d.Threshold] {
				return nil, fmt.Errorf("nft tier %q: duplicate threshold %d", d.Name, d.Threshold)
			}
			thresholds[d.Threshold] = true
			c.tiers = append(c.tiers, d)
		case CategoryOther:
		default:
			return nil, fmt.Errorf("role %q: unknown category %q", d.Name, d.Category)
		}

		c.defs = append(c.defs, d)
		c.byID[d.ID] = d
		c.byName[d.Name] = d
	}

	sort.Slice(c.tiers, func(i, j int) bool { return c.tiers[i].Threshold < c.tiers[j].Threshold })

	for _, e := range eligibility {
		if _, dup := c.eligibility[e.ID]; dup {
			return nil, fmt.Errorf("eligibility role %s: duplicate id", e.ID)
		}
		if e.Tier != MintTierGTD && e.Tier != MintTierFCFS {
			return nil, fmt.Errorf("eligibility role %q: unknown tier %q", e.Name, e.Tier)
		}
		c.eligibility[e.ID] = e
	}

	return c, nil
}

func (c *Catalog) Version() string { return c.version }

// Definitions returns the managed roles in declaration order.
func (c *Catalog) Definitions() []RoleDefinition {
	out := make([]RoleDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) ByID(id snowflake.ID) (RoleDefinition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *Catalog) ByName(name string) (RoleDefinition, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// IsManaged reports whether the reconciler governs id.
func (c *Catalog) IsManaged(id snowflake.ID) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) BadgeForMilestone(milestone int) (RoleDefinition, bool) {
	d, ok := c.badges[milestone]
	return d, ok
}

// Milestones returns badge milestones in ascending order.
func (c *Catalog) Milestones() []int {
	out := make([]int, 0, len(c.badges))
	for m := range c.badges {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// NFTTiers returns the tiers by ascending threshold.
func (c *Catalog) NFTTiers() []RoleDefinition {
	out := make([]RoleDefinition, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// NFTTierFor returns the tier with the largest threshold not above count.
func (c *Catalog) NFTTierFor(count int) (RoleDefinition, bool) {
	for i := len(c.tiers) - 1; i >= 0; i-- {
		if c.tiers[i].Threshold <= count {
			return c.tiers[i], true
		}
	}
	return RoleDefinition{}, false
}

// Desired computes the managed roles a member should hold. Milestones and
// linked ids that are not catalog entries of the right category are ignored.
func (c *Catalog) Desired(claimedMilestones []int, linkedRoleIDs []snowflake.ID, nftCount int) DesiredSet {
	var set DesiredSet
	seen := make(map[snowflake.ID]bool)
	add := func(d RoleDefinition) {
		if !seen[d.ID] {
			seen[d.ID] = true
			set.Roles = append(set.Roles, d)
		}
	}

	for _, m := range claimedMilestones {
		if d, ok := c.badges[m]; ok {
			add(d)
		}
	}
	for _, id := range linkedRoleIDs {
		if d, ok := c.byID[id]; ok && d.Category == CategoryOther {
			add(d)
		}
	}
	if nftCount > 0 {
		if tier, ok := c.NFTTierFor(nftCount); ok {
			add(tier)
			set.NFTTier = &tier
		}
	}
	return set
}

// Eligibility looks up a guild role in the mint eligibility table.
func (c *Catalog) Eligibility(id snowflake.ID) (EligibilityRole, bool) {
	e, ok := c.eligibility[id]
	return e, ok
}

// EligibleRoles filters held role ids to eligibility entries, ordered by
// rank (highest first).
func (c *Catalog) EligibleRoles(held []snowflake.ID) []EligibilityRole {
	var out []EligibilityRole
	seen := make(map[snowflake.ID]bool)
	for _, id := range held {
		if e, ok := c.eligibility[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// HighestEligible returns the best-ranked eligibility role among held.
func (c *Catalog) HighestEligible(held []snowflake.ID) (EligibilityRole, bool) {
	roles := c.EligibleRoles(held)
	if len(roles) == 0 {
		return EligibilityRole{}, false
	}
	return roles[0], true
}

// EligibilityByName finds an eligibility entry by display name.
func (c *Catalog) EligibilityByName(name string) (EligibilityRole, bool) {
	for _, e := range c.eligibility {
		if e.Name == name {
			return e, true
		}
	}
	return EligibilityRole{}, false
}
