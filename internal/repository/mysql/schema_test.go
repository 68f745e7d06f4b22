package mysql

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories and the migration must agree on column names; a column
// referenced in a query but missing from the DDL only surfaces as a runtime
// 1054 against a live server, so pin the mapping here.
func TestMigrationCoversQueriedColumns(t *testing.T) {
	ddl, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)

	queried := map[string][]string{
		"tenants": strings.Split(tenantColumns, ", "),
		"users":   strings.Split(userColumns, ", "),
		"refresh_tokens": {
			"id", "user_id", "tenant_id", "token_hash", "expires_at", "revoked_at", "created_at",
		},
		"password_reset_tokens": {
			"id", "user_id", "token_hash", "expires_at", "used", "used_at", "created_at",
		},
	}

	for table, cols := range queried {
		defined := tableColumns(t, string(ddl), table)
		for _, col := range cols {
			assert.Contains(t, defined, col, "table %s must define column %s", table, col)
		}
	}
}

var columnLine = regexp.MustCompile(`(?m)^\s{4}(\w+)\s`)

// tableColumns extracts the column names of one CREATE TABLE block.
func tableColumns(t *testing.T, ddl, table string) map[string]bool {
	t.Helper()
	start := strings.Index(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (")
	require.GreaterOrEqual(t, start, 0, "migration must create table %s", table)
	body := ddl[start:]
	end := strings.Index(body, ") ENGINE")
	require.GreaterOrEqual(t, end, 0)
	body = body[:end]

	cols := map[string]bool{}
	for _, m := range columnLine.FindAllStringSubmatch(body, -1) {
		switch m[1] {
		case "PRIMARY", "UNIQUE", "KEY", "CONSTRAINT":
			continue
		}
		cols[m[1]] = true
	}
	return cols
}
