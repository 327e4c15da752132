package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is the driver-neutral empty-result sentinel. The pgx pool
// and database/sql report misses with different errors; repositories
// branch on this one through IsNoRows.
var ErrNoRows = errors.New("no rows in result set")

var noRowsSentinels = []error{pgx.ErrNoRows, sql.ErrNoRows, ErrNoRows}

// IsNoRows matches the empty-result sentinel of either driver.
func IsNoRows(err error) bool {
	for _, sentinel := range noRowsSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
