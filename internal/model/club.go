package model

import "slices"

// Club is a named roster led by a captain. Members always include the captain.
type Club struct {
	Name    string
	Captain string
	Members []string
}

// HasMember reports whether the display name is on the roster
func (c Club) HasMember(name string) bool {
	return slices.Contains(c.Members, name)
}

// Clone returns a copy that shares no slice storage with c
func (c Club) Clone() Club {
	c.Members = slices.Clone(c.Members)
	return c
}
