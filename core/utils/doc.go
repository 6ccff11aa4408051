// Package utils provides common utility functions for the collection pricer.
// It includes helper functions for type conversion and header normalisation used at
// the inventory import boundary, and other shared logic that doesn't fit into
// domain-specific packages.
package utils
