package sqlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"empty", "", []string{}},
		{"only separators", " ; ;; ", []string{}},
		{"single", "select 1", []string{"select 1"}},
		{"trailing separator", "select 1;", []string{"select 1"}},
		{"multiple", "create table t (id int); insert into t values (1); select * from t",
			[]string{"create table t (id int)", "insert into t values (1)", "select * from t"}},
		{"whitespace trimmed", "  select 1  ;\n\tselect 2\n", []string{"select 1", "select 2"}},
		// Known limitation: the split does not understand string literals.
		{"semicolon in string literal", "select 'a;b'", []string{"select 'a", "b'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   bool
	}{
		{"empty script", "", false},
		{"whitespace only", "  ;  ", false},
		{"single select", "select * from customers", true},
		{"uppercase select", "SELECT * FROM customers", true},
		{"mixed case", "SeLeCt 1", true},
		{"leading whitespace", "   \n\tselect 1", true},
		{"multiple selects", "select 1; select 2; select 3", true},
		{"delete", "delete from customers", false},
		{"select then delete", "select 1; delete from customers", false},
		{"delete then select", "delete from customers; select 1", false},
		{"prefix is word-bounded", "selection from t", false},
		{"ddl", "create table t (id int)", false},
		// Surface syntax only: side effects hidden in a select pass.
		{"select into outfile", "select * from t into outfile '/tmp/x'", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadOnly(tt.script))
		})
	}
}

func TestContainsLimit(t *testing.T) {
	assert.False(t, ContainsLimit("select * from t"))
	assert.True(t, ContainsLimit("select * from t LIMIT 10"))
	assert.True(t, ContainsLimit("select * from t limit 10"))
	// Substring, not token: both of these suppress the row cap.
	assert.True(t, ContainsLimit("select limit_price from orders"))
	assert.True(t, ContainsLimit("select * from (select id from t limit 5) sub"))
}

// Appending a LIMIT clause must not change the statement count on re-split.
func TestRowCapAppendIsSplitStable(t *testing.T) {
	script := "select * from customers"
	capped := script + " LIMIT 500"
	assert.Len(t, SplitStatements(capped), len(SplitStatements(script)))
}
