package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		mobile_number TEXT UNIQUE NOT NULL,
		firebase_uid TEXT UNIQUE,
		civic_id TEXT UNIQUE NOT NULL,
		is_verified BOOLEAN,
		auth_provider TEXT,
		full_name TEXT,
		email TEXT,
		address TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createIssueTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE issues (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		category TEXT,
		priority TEXT,
		description_mode TEXT,
		status TEXT,
		vouch_count INTEGER DEFAULT 1,
		image_filename TEXT,
		audio_filename TEXT,
		image_url TEXT,
		audio_url TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createVouchTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE vouches (
		id TEXT PRIMARY KEY,
		issue_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE(issue_id, user_id)
	);`)
}
