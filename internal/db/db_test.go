package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	got := nullIfEmpty("Staff Engineer")
	if assert.NotNil(t, got) {
		assert.Equal(t, "Staff Engineer", *got)
	}
}

func TestDeref(t *testing.T) {
	s := "Shopify"
	assert.Equal(t, "Shopify", deref(&s))
	assert.Equal(t, "", deref(nil))
}

func TestSchemaDefinesTables(t *testing.T) {
	for _, table := range []string{
		"settings", "colleagues", "work_history", "colleague_education",
		"candidates", "candidate_history", "candidate_education",
	} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, schemaSQL, "ON DELETE CASCADE")
}

func TestHistoryTables(t *testing.T) {
	assert.Equal(t, "colleague_id", colleagueTables.owner)
	assert.Equal(t, "candidate_id", candidateTables.owner)
	for _, tbl := range []historyTable{colleagueTables, candidateTables} {
		assert.True(t, strings.Contains(schemaSQL, tbl.periods), tbl.periods)
		assert.True(t, strings.Contains(schemaSQL, tbl.education), tbl.education)
	}
}
