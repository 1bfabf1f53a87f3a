package store

import (
	"path/filepath"
	"testing"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "dashy.db"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocalStoreTodoPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashy.db")

	s, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	added := s.AddTodo("Water the plants")
	if added.ID == 0 {
		t.Fatal("AddTodo should assign a nonzero id")
	}
	if !s.SetTodoDone(added.ID, true) {
		t.Fatal("SetTodoDone returned false")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify the row survived.
	s2, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	todos := s2.Todos()
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo after reopen, got %d", len(todos))
	}
	if todos[0].Content != "Water the plants" || !todos[0].Done {
		t.Errorf("unexpected todo after reopen: %+v", todos[0])
	}
}

func TestLocalStoreTodoRemove(t *testing.T) {
	s := newTestLocalStore(t)

	a := s.AddTodo("one")
	s.AddTodo("two")

	if !s.RemoveTodo(a.ID) {
		t.Fatal("RemoveTodo returned false for existing todo")
	}
	if s.RemoveTodo(a.ID) {
		t.Error("RemoveTodo should return false for already-removed todo")
	}
	todos := s.Todos()
	if len(todos) != 1 || todos[0].Content != "two" {
		t.Errorf("unexpected todos after removal: %+v", todos)
	}
}

func TestLocalStoreMail(t *testing.T) {
	s := newTestLocalStore(t)

	e := s.AddEmail("alice@example.com", "Hello", "Hi there")
	if e.ID == 0 {
		t.Fatal("AddEmail should assign a nonzero id")
	}

	emails := s.Emails()
	if len(emails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(emails))
	}
	if emails[0].Read {
		t.Error("new email should be unread")
	}

	if !s.MarkEmailRead(e.ID) {
		t.Fatal("MarkEmailRead returned false")
	}
	if !s.Emails()[0].Read {
		t.Error("email should be marked read")
	}

	if !s.RemoveEmail(e.ID) {
		t.Fatal("RemoveEmail returned false")
	}
	if len(s.Emails()) != 0 {
		t.Error("mailbox should be empty after removal")
	}
	if s.MarkEmailRead(e.ID) {
		t.Error("MarkEmailRead should return false for removed email")
	}
}

func TestLocalStoreEmailsCreationOrder(t *testing.T) {
	s := newTestLocalStore(t)

	// Same created_at is likely here, so ordering must come from the ids.
	s.AddEmail("alice@example.com", "First", "one")
	s.AddEmail("bob@example.com", "Second", "two")
	s.AddEmail("carol@example.com", "Third", "three")

	emails := s.Emails()
	if len(emails) != 3 {
		t.Fatalf("expected 3 emails, got %d", len(emails))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if emails[i].Subject != want {
			t.Errorf("emails[%d].Subject = %q, want %q", i, emails[i].Subject, want)
		}
	}
}
