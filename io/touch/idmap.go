// SPDX-License-Identifier: Unlicense OR MIT

package touch

// IDMap maps backend touch point identifiers to the identifiers the
// protocol layer assigned at touch down. The zero value is an empty map.
type IDMap struct {
	ids map[int32]int32
}

// Insert maps internal to external, replacing any previous mapping.
func (m *IDMap) Insert(internal, external int32) {
	if m.ids == nil {
		m.ids = make(map[int32]int32)
	}
	m.ids[internal] = external
}

// Lookup returns the external identifier of internal.
func (m *IDMap) Lookup(internal int32) (int32, bool) {
	id, ok := m.ids[internal]
	return id, ok
}

// Mapped returns the external identifier of internal, or -1.
func (m *IDMap) Mapped(internal int32) int32 {
	if id, ok := m.ids[internal]; ok {
		return id
	}
	return -1
}

// Remove forgets internal. It reports whether a mapping existed.
func (m *IDMap) Remove(internal int32) bool {
	if _, ok := m.ids[internal]; !ok {
		return false
	}
	delete(m.ids, internal)
	return true
}

// Cancel forgets every mapping.
func (m *IDMap) Cancel() {
	for id := range m.ids {
		delete(m.ids, id)
	}
}

// Len returns the number of mapped touch points.
func (m *IDMap) Len() int {
	return len(m.ids)
}
