package model

import "time"

// Resource is a cataloged external link.
type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Link      string    `json:"link"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasAnyTag reports whether the resource carries at least one of tags.
// Matching is exact and case sensitive.
func (r *Resource) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range r.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

type ResourceFilter struct {
	Tags   []string
	Limit  int
	Offset int
}
