// Package utils holds small string helpers shared by the CLI, the
// recurrence parser and the storage validator.
package utils

import (
	"strconv"
	"strings"
)

// SplitList splits a comma separated list such as "work, home,,work".
// Items are trimmed, empty items dropped and repeats removed, keeping the
// first occurrence.
func SplitList(s string) []string {
	var items []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		items = append(items, part)
	}
	return items
}

// JSONPointerToPath renders a JSON Pointer as a field path:
// "/tasks/0/subtasks/2/dueDate" becomes "tasks[0].subtasks[2].dueDate".
// A leading "#" is accepted.
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	var b strings.Builder
	for _, tok := range strings.Split(ptr, "/") {
		if tok == "" {
			continue
		}
		tok = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
		if _, err := strconv.Atoi(tok); err == nil {
			b.WriteString("[" + tok + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}
