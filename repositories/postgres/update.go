package postgres

import (
	"fmt"
	"strings"
)

// setClause accumulates "column = $n" assignments for partial updates
type setClause struct {
	columns []string
	args    []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.columns = append(s.columns, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// touch sets column to the database clock
func (s *setClause) touch(column string) {
	s.columns = append(s.columns, column+" = NOW()")
}

func (s *setClause) empty() bool {
	return len(s.columns) == 0
}

// build returns "UPDATE table SET ... WHERE id = $n RETURNING returning" and its arguments
func (s *setClause) build(table, id, returning string) (string, []interface{}) {
	args := append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(s.columns, ", "), len(args), returning)
	return query, args
}
