package media

import (
	"bytes"
	"strings"
	"testing"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore()
	data := []byte("RIFF....")

	r := s.Put(data, "audio/wav")
	if r.ID == "" {
		t.Fatal("Put() returned empty id")
	}
	if r.URL() != "/v1/media/"+r.ID {
		t.Errorf("URL() = %s", r.URL())
	}

	got, ok := s.Get(r.ID)
	if !ok {
		t.Fatal("Get() did not find stored resource")
	}
	if !bytes.Equal(got.Data, data) || got.ContentType != "audio/wav" {
		t.Errorf("Get() = %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	s := NewStore()
	a := s.Put(nil, "audio/wav")
	b := s.Put(nil, "audio/wav")
	if a.ID == b.ID {
		t.Error("Put() reused an id")
	}
}

func TestStore_Revoke(t *testing.T) {
	s := NewStore()
	r := s.Put([]byte{1}, "audio/wav")

	if !s.Revoke(r.ID) {
		t.Fatal("Revoke() = false for live resource")
	}
	if _, ok := s.Get(r.ID); ok {
		t.Error("Get() found revoked resource")
	}
	if s.Revoke(r.ID) {
		t.Error("second Revoke() = true")
	}
	if s.Revoke("unknown") {
		t.Error("Revoke(unknown) = true")
	}
	if s.Len() != 0 || s.Revoked() != 1 {
		t.Errorf("Len() = %d, Revoked() = %d; want 0, 1", s.Len(), s.Revoked())
	}
}

func TestURL(t *testing.T) {
	if got := URL("abc"); !strings.HasSuffix(got, "/abc") || !strings.HasPrefix(got, URLPrefix) {
		t.Errorf("URL() = %s", got)
	}
}
