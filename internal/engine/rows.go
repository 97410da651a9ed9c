package engine

import (
	"database/sql"

	"viewgen/internal/domain"
)

// ScanRows reads every row of rows into a ResultSet. Byte slices are
// converted to strings so text columns compare equal across drivers.
func ScanRows(rows *sql.Rows) (*domain.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &domain.ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	return rs, rows.Err()
}
