package session

import "testing"

func TestEmptyStore(t *testing.T) {
	s := NewStore()
	if tok, ok := s.Get(); ok || tok != "" {
		t.Errorf("empty store returned %q, %v", tok, ok)
	}
}

func TestSetGetClear(t *testing.T) {
	s := NewStore()
	s.Set("tok-123")

	tok, ok := s.Get()
	if !ok || tok != "tok-123" {
		t.Errorf("Get() = %q, %v after Set", tok, ok)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Error("credential still present after Clear")
	}
}

func TestSetReplaces(t *testing.T) {
	s := NewStore()
	s.Set("first")
	s.Set("second")

	tok, _ := s.Get()
	if tok != "second" {
		t.Errorf("Get() = %q, want %q", tok, "second")
	}
}
