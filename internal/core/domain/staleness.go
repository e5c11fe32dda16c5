package domain

// Timestamp returns the modification time t is judged by.
// A generated source is as old as the older of its output and header.
func (t *Target) Timestamp(mtime MtimeFunc) Timestamp {
	own := mtime(t.Path())
	if t.kind == KindGeneratedSource {
		own = min(own, mtime(t.Header()))
	}
	return own
}

// NeedsUpdating reports whether some dependency of t is at least as new as t.
// Equal timestamps count as stale. A target without dependencies is never stale.
// The interface file of a generated source is an implicit dependency.
func (t *Target) NeedsUpdating(mtime MtimeFunc) bool {
	own := t.Timestamp(mtime)
	for _, c := range t.children {
		if own <= mtime(c.Path()) {
			return true
		}
	}
	if t.kind == KindGeneratedSource && t.gen.iface != "" {
		return own <= mtime(t.gen.iface)
	}
	return false
}
