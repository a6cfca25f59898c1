// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
)

// FindPick finds a selected option by name in a summary.
// Returns a pointer to the first match if found, nil otherwise.
func FindPick(summary optimization.Summary, name string) *optimization.Pick {
	for i := range summary.Selected {
		if summary.Selected[i].Name == name {
			return &summary.Selected[i]
		}
	}
	return nil
}

// PickNames returns the names of the selected options in order.
func PickNames(summary optimization.Summary) []string {
	names := make([]string, len(summary.Selected))
	for i, pick := range summary.Selected {
		names[i] = pick.Name
	}
	return names
}
