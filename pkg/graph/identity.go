package graph

import "strings"

// ChildSeparator joins a parent ID and a sanitized label in a discovery ID.
const ChildSeparator = "::"

// ChildID derives the ID of a discovery from its parent topic and label.
// The result is deterministic. Labels that sanitize to the same string under
// the same parent produce the same ID.
func ChildID(parentID, label string) string {
	return parentID + ChildSeparator + Sanitize(label)
}

// Sanitize replaces every rune outside [A-Za-z0-9] with an underscore.
func Sanitize(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, label)
}
