package geometry

import (
	"slices"
	"strings"
)

// Style is the subset of computed style that decides clickability.
// Empty strings mean the CSS initial value.
type Style struct {
	Display       string
	Visibility    string
	Opacity       string
	PointerEvents string
}

// Element is one page element as seen by the geometry query.
type Element struct {
	// Tag is the element name, compared case-insensitively.
	Tag string
	// Role is the ARIA role attribute.
	Role string
	// TabIndex is the tabindex attribute; nil when absent.
	TabIndex *int
	// Bounds is the bounding box in document coordinates.
	Bounds Rect
	Style  Style
	// HasOffsetParent is false for elements taken out of layout
	// (display:none ancestors, position:fixed without a parent, ...).
	HasOffsetParent bool
	// IsBody marks the document body, which never has an offset parent.
	IsBody bool
	// Editable marks inputs, textareas and contenteditable elements.
	Editable bool
	// ID is an optional label for callers.
	ID string
}

// TabIndexOf returns a pointer suitable for Element.TabIndex.
func TabIndexOf(v int) *int { return &v }

var interactiveTags = []string{"a", "button", "input", "textarea", "select"}

// IsInteractive reports whether e matches the interactive selector set:
// a, button, input, textarea, select, [role="button"] and
// [tabindex]:not([tabindex="-1"]).
func IsInteractive(e Element) bool {
	if slices.Contains(interactiveTags, strings.ToLower(e.Tag)) {
		return true
	}
	if e.Role == "button" {
		return true
	}
	return e.TabIndex != nil && *e.TabIndex != -1
}

// IsVisible reports whether e is rendered with a non-empty box.
func IsVisible(e Element) bool {
	if e.Bounds.Width() <= 0 || e.Bounds.Height() <= 0 {
		return false
	}
	if e.Style.Display == "none" || e.Style.Visibility == "hidden" || e.Style.Opacity == "0" {
		return false
	}
	return e.HasOffsetParent || e.IsBody
}

// IsClickable reports whether e is visible and accepts pointer events.
func IsClickable(e Element) bool {
	return IsVisible(e) && e.Style.PointerEvents != "none"
}
