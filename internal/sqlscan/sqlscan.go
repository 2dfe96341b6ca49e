// Package sqlscan classifies SQL scripts by surface syntax only. It splits on
// the plain ';' separator and checks statement prefixes; it does not understand
// string literals, comments or procedure bodies. A semicolon inside a quoted
// string is split incorrectly. Callers relying on IsReadOnly get exactly this
// weak-but-simple contract and nothing more.
package sqlscan

import "strings"

// SplitStatements splits a script into trimmed, non-empty statement texts.
func SplitStatements(script string) []string {
	parts := strings.Split(script, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// IsSelect reports whether a single trimmed statement starts with "select",
// case-insensitively.
func IsSelect(stmt string) bool {
	s := strings.TrimSpace(stmt)
	if len(s) < 6 {
		return false
	}
	if !strings.EqualFold(s[:6], "select") {
		return false
	}
	// "selection" must not pass; require end of text or a non-word boundary.
	if len(s) == 6 {
		return true
	}
	c := s[6]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

// IsReadOnly reports whether the script consists solely of select statements.
// An empty script (nothing left after splitting) is not read-only.
func IsReadOnly(script string) bool {
	stmts := SplitStatements(script)
	if len(stmts) == 0 {
		return false
	}
	for _, s := range stmts {
		if !IsSelect(s) {
			return false
		}
	}
	return true
}

// ContainsLimit reports whether the statement contains the text "limit"
// anywhere, case-insensitively. This is a substring check, not a token check:
// a column named "limit_price" or a "limit" inside a subquery suppresses the
// row cap. Preserved heuristic; see DESIGN.md.
func ContainsLimit(stmt string) bool {
	return strings.Contains(strings.ToLower(stmt), "limit")
}
