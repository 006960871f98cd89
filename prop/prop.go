// Package prop defines geometry roles and their property bags. A role names
// the purpose a geometry serves (proximity, illustration, perception); its
// properties are an open, group/name-keyed map of values the registry never
// interprets — downstream consumers (visualizers, proximity engines) do.
package prop

// Role names the purpose a geometry has been assigned for.
type Role int

const (
	// RoleUnassigned matches geometries that carry no role at all.
	RoleUnassigned Role = iota
	RoleProximity
	RoleIllustration
	RolePerception
)

func (r Role) String() string {
	switch r {
	case RoleUnassigned:
		return "unassigned"
	case RoleProximity:
		return "proximity"
	case RoleIllustration:
		return "illustration"
	case RolePerception:
		return "perception"
	}
	return "unknown"
}

type groupKey struct {
	group string
	name  string
}

// Properties is a role-tagged bag of named values organized in groups.
type Properties struct {
	role   Role
	values map[groupKey]any
}

// NewProximityProperties returns an empty proximity-role bag.
func NewProximityProperties() *Properties { return newProperties(RoleProximity) }

// NewIllustrationProperties returns an empty illustration-role bag.
func NewIllustrationProperties() *Properties { return newProperties(RoleIllustration) }

// NewPerceptionProperties returns an empty perception-role bag.
func NewPerceptionProperties() *Properties { return newProperties(RolePerception) }

func newProperties(role Role) *Properties {
	return &Properties{role: role, values: map[groupKey]any{}}
}

// Role returns the role this bag belongs to.
func (p *Properties) Role() Role { return p.role }

// Set stores a value under group/name, overwriting any previous value.
func (p *Properties) Set(group, name string, value any) {
	p.values[groupKey{group, name}] = value
}

// Get returns the value stored under group/name.
func (p *Properties) Get(group, name string) (any, bool) {
	v, ok := p.values[groupKey{group, name}]
	return v, ok
}

// Len returns the number of stored values.
func (p *Properties) Len() int { return len(p.values) }

// Clone returns an independent copy of the bag. Values are copied shallowly;
// they are expected to be immutable.
func (p *Properties) Clone() *Properties {
	c := newProperties(p.role)
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}
