package repositories

import (
	"database/sql"
	"fmt"
)

// expectOne checks that an UPDATE or DELETE touched a row, wrapping notFound otherwise.
func expectOne(result sql.Result, notFound error, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
