package utils

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"work", []string{"work"}},
		{" work , home ", []string{"work", "home"}},
		{"work,,home,", []string{"work", "home"}},
		{"work,home,work", []string{"work", "home"}},
		{"mon, wed ,fri", []string{"mon", "wed", "fri"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/tasks", "tasks"},
		{"/tasks/0/dueDate", "tasks[0].dueDate"},
		{"#/tasks/3/subtasks/1/priority", "tasks[3].subtasks[1].priority"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.in); got != tt.want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
