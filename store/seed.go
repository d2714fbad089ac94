package store

import "github.com/taskdeck/taskdeck/domain"

// DefaultSeeds returns the demo tasks the tracker boots with. The first
// title is relied on by the seed-data checks, so keep it stable.
func DefaultSeeds() []domain.CreateRequest {
	return []domain.CreateRequest{
		{Title: "Learn Go 1.25", Description: "Work through the release notes"},
		{Title: "Build the reactive store", Description: "Snapshot broadcasts after every mutation"},
		{Title: "Wire up the terminal UI", Description: "List, edit form, and status line"},
	}
}
