// SPDX-License-Identifier: Unlicense OR MIT

package touch

import "testing"

func TestIDMap(t *testing.T) {
	var m IDMap
	if _, ok := m.Lookup(5); ok {
		t.Fatal("zero IDMap must be empty")
	}
	m.Insert(5, 42)
	if id, ok := m.Lookup(5); !ok || id != 42 {
		t.Errorf("Lookup(5) = %d, %v; want 42, true", id, ok)
	}
	if !m.Remove(5) {
		t.Error("Remove(5) reported no mapping")
	}
	if _, ok := m.Lookup(5); ok {
		t.Error("Lookup(5) after Remove must fail")
	}
	if m.Remove(5) {
		t.Error("second Remove must report no mapping")
	}
	if m.Mapped(5) != -1 {
		t.Error("Mapped of an unknown id must be -1")
	}
}

func TestIDMapCancel(t *testing.T) {
	var m IDMap
	for i := int32(0); i < 4; i++ {
		m.Insert(i, 100+i)
	}
	m.Insert(2, 7)
	if m.Len() != 4 || m.Mapped(2) != 7 {
		t.Fatalf("Insert must replace: len %d, id %d", m.Len(), m.Mapped(2))
	}
	m.Cancel()
	if m.Len() != 0 {
		t.Errorf("Len after Cancel = %d", m.Len())
	}
	for i := int32(0); i < 4; i++ {
		if _, ok := m.Lookup(i); ok {
			t.Errorf("id %d survived Cancel", i)
		}
	}
	m.Insert(1, 1)
	if m.Mapped(1) != 1 {
		t.Error("map unusable after Cancel")
	}
}
