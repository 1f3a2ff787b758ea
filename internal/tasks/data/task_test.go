package data

import (
	"errors"
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Work", "work", false},
		{"  #home ", "home", false},
		{"due-2024.q1", "due-2024.q1", false},
		{"", "", true},
		{"two words", "", true},
		{"a|b", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeTag(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidTag) {
				t.Errorf("NormalizeTag(%q): expected ErrInvalidTag, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeTag(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInternReturnsSameID(t *testing.T) {
	tags := NewTags()
	a, _ := tags.Intern("work")
	b, _ := tags.Intern("WORK")
	if a != b {
		t.Errorf("expected same id, got %d and %d", a, b)
	}
	if tags.Len() != 1 {
		t.Errorf("expected 1 tag, got %d", tags.Len())
	}
}

func TestTaskTagOps(t *testing.T) {
	var task Task
	task.SetTags([]TagID{3, 1, 3, 2})
	if got := task.TagIDs(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected tag set %v", got)
	}

	snapshot := task
	task.RemoveTag(2)
	if !snapshot.HasTag(2) {
		t.Error("removing from one copy must not affect another")
	}
	if task.HasTag(2) {
		t.Error("expected tag 2 to be removed")
	}

	task.AddTag(0)
	if !task.HasTag(0) || task.TagIDs()[0] != 0 {
		t.Errorf("expected tag 0 first, got %v", task.TagIDs())
	}
}
