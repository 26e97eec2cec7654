package ruleset

import "sort"

// ProfileRegistry provides lookup of profiles by ID.
type ProfileRegistry struct {
	profiles map[string]*Profile
}

// NewProfileRegistry returns an empty ProfileRegistry.
//
// Postcondition: Returns a non-nil *ProfileRegistry ready to accept registrations.
func NewProfileRegistry() *ProfileRegistry {
	return &ProfileRegistry{profiles: make(map[string]*Profile)}
}

// Register adds a Profile to the registry.
//
// Precondition: p must be non-nil with a non-empty ID.
// Postcondition: p is retrievable via Profile using p.ID;
// if called multiple times with the same ID, the last call wins.
func (r *ProfileRegistry) Register(p *Profile) {
	if p == nil {
		panic("ProfileRegistry.Register: precondition violated: profile must be non-nil")
	}
	if p.ID == "" {
		panic("ProfileRegistry.Register: precondition violated: profile ID must be non-empty")
	}
	r.profiles[p.ID] = p
}

// Profile returns the Profile for id, if registered.
func (r *ProfileRegistry) Profile(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// IDs returns every registered ID in ascending order.
func (r *ProfileRegistry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
