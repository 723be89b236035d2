package policy

// VisibleOrDeny returns item when the viewer may see it and an
// *AccessDeniedError otherwise.
func VisibleOrDeny[T Item](g Gate, v Viewer, item T) (T, error) {
	if !item.Content().Restricted() || g.IsMature(v) {
		return item, nil
	}
	var zero T
	return zero, g.Deny()
}

// FilterVisible returns the items the viewer may see, keeping their order.
// Restricted items are dropped silently for viewers that are not mature so a
// listing never reveals them.
func FilterVisible[T Item](g Gate, v Viewer, items []T) []T {
	if g.IsMature(v) {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !it.Content().Restricted() {
			out = append(out, it)
		}
	}
	return out
}
