package patient

import "fmt"

// ListFilter holds the optional list/search parameters. Empty fields impose
// no constraint; present fields are AND-combined. An unrecognized status or
// gender value matches nothing rather than erroring.
type ListFilter struct {
	Search string
	Status string
	Gender string
}

// listQuery builds the SQL WHERE clause for a ListFilter with positional
// arguments. Result ordering is fixed: created_at descending, ties broken by
// id descending.
type listQuery struct {
	where string
	args  []interface{}
	idx   int
}

func newListQuery(f ListFilter) *listQuery {
	q := &listQuery{idx: 1}

	if f.Search != "" {
		q.add(fmt.Sprintf(
			"(full_name ILIKE $%d OR phone_number ILIKE $%d OR illness_diagnosis ILIKE $%d)",
			q.idx, q.idx, q.idx),
			"%"+f.Search+"%")
	}
	if f.Status != "" {
		q.add(fmt.Sprintf("status = $%d", q.idx), f.Status)
	}
	if f.Gender != "" {
		q.add(fmt.Sprintf("gender = $%d", q.idx), f.Gender)
	}

	return q
}

func (q *listQuery) add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// CountSQL returns the count query.
func (q *listQuery) CountSQL() string {
	return "SELECT COUNT(*) FROM patients WHERE 1=1" + q.where
}

// CountArgs returns the arguments for the count query.
func (q *listQuery) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query with ordering and LIMIT/OFFSET.
func (q *listQuery) DataSQL(cols string) string {
	return fmt.Sprintf(
		"SELECT %s FROM patients WHERE 1=1%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		cols, q.where, q.idx, q.idx+1)
}

// DataArgs returns the arguments for the data query (filter args + limit + offset).
func (q *listQuery) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}
