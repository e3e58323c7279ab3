package db

import (
	"testing"

	"hoa-server/confs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	dsn, err := postgresDSN(confs.DBConfig{URL: "postgres://u:p@db.example.com/hoa"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db.example.com/hoa?sslmode=require", dsn)

	dsn, err = postgresDSN(confs.DBConfig{URL: "postgres://u:p@db/hoa?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/hoa?sslmode=disable", dsn)

	dsn, err = postgresDSN(confs.DBConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", Name: "hoa"})
	require.NoError(t, err)
	assert.Contains(t, dsn, "sslmode=disable")

	_, err = postgresDSN(confs.DBConfig{Host: "localhost"})
	assert.Error(t, err)
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	database, err := Connect(confs.DBConfig{Driver: "sqlite", URL: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(database))

	assert.True(t, database.GetDB().Migrator().HasTable("maintenance_requests"))
	assert.True(t, database.GetDB().Migrator().HasTable("unit_owners"))
	assert.True(t, database.GetDB().Migrator().HasTable("overwrite_code_units"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Connect(confs.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
