package cache

import "testing"

func TestStoreInsertIsFirstWriteWins(t *testing.T) {
	s := newStore()
	key := NewKey("app", "1")
	s.insert(key, Item{Object: key, Role: RoleButton})
	s.insert(key, Item{Object: key, Role: RoleLink})

	item, ok := s.get(key)
	if !ok || item.Role != RoleButton {
		t.Fatalf("insert should be first-write-wins, got role %v", item.Role)
	}
}

func TestStoreReplaceOverwrites(t *testing.T) {
	s := newStore()
	key := NewKey("app", "1")
	s.insert(key, Item{Object: key, Role: RoleButton})
	s.replace(key, Item{Object: key, Role: RoleLink})

	item, _ := s.get(key)
	if item.Role != RoleLink {
		t.Fatal("replace should overwrite the existing entry")
	}
}

func TestStoreHasAppDistinguishesUntouchedFromEmpty(t *testing.T) {
	s := newStore()
	key := NewKey("app", "1")
	if s.hasApp(key) {
		t.Fatal("untouched app bucket should report hasApp=false")
	}
	s.bucket("app")
	if !s.hasApp(key) {
		t.Fatal("touched (even if empty) app bucket should report hasApp=true")
	}
}

func TestStoreRemove(t *testing.T) {
	s := newStore()
	key := NewKey("app", "1")
	s.insert(key, Item{Object: key})

	item, ok := s.remove(key)
	if !ok || item.Object != key {
		t.Fatal("remove should return the removed item")
	}
	if _, ok := s.get(key); ok {
		t.Fatal("item should no longer be present after remove")
	}

	if _, ok := s.remove(key); ok {
		t.Fatal("removing an absent key should report ok=false")
	}
}

func TestStoreRemoveApp(t *testing.T) {
	s := newStore()
	k1 := NewKey("app", "1")
	k2 := NewKey("app", "2")
	s.insert(k1, Item{Object: k1})
	s.insert(k2, Item{Object: k2})

	s.removeApp("app")

	if s.hasApp(k1) {
		t.Fatal("removeApp should drop the entire outer bucket")
	}
	if s.len() != 0 {
		t.Fatal("len should be zero after removeApp")
	}
}

func TestStoreLenAndClear(t *testing.T) {
	s := newStore()
	s.insert(NewKey("app1", "1"), Item{})
	s.insert(NewKey("app2", "1"), Item{})
	if s.len() != 2 {
		t.Fatalf("len() = %d, want 2", s.len())
	}
	s.clear()
	if s.len() != 0 {
		t.Fatal("clear should empty the store")
	}
	if s.hasApp(NewKey("app1", "1")) {
		t.Fatal("clear should drop outer buckets too")
	}
}
