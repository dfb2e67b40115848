package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("english")
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("english"); again != session {
		t.Fatalf("expected the same session for the same quiz")
	}
	if _, ok := store.Get("english"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfEmpty("english")
	if _, ok := store.Get("english"); ok {
		t.Fatalf("expected session removed when empty")
	}
	store.DeleteIfEmpty("english")
}
