package menu

import (
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Every pooled connection gets its own :memory: database, so pin
	// the pool to one connection.
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../databases/migrations/menu/0001_init.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)

	date := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
	rec, err := repo.CreateRecord(date, MealLunch, json.RawMessage(`["Rice", "Dal"]`), true)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, MealLunch, rec.Meal)
	assert.True(t, rec.Published)
	assert.Equal(t, "2025-09-10", rec.Date.Format(DateFormat))
	assert.JSONEq(t, `["Rice", "Dal"]`, string(rec.Items))

	got, err := repo.GetRecordByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
}

func TestRepositoryGetMissingRecord(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetRecordByID(9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryListPublishedFiltersAndOrders(t *testing.T) {
	repo := newTestRepo(t)

	later := time.Date(2025, time.September, 12, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)
	draft := time.Date(2025, time.September, 9, 0, 0, 0, 0, time.UTC)

	_, err := repo.CreateRecord(later, MealDinner, json.RawMessage(`["Biryani"]`), true)
	require.NoError(t, err)
	_, err = repo.CreateRecord(earlier, MealBreakfast, json.RawMessage(`["Idli"]`), true)
	require.NoError(t, err)
	_, err = repo.CreateRecord(draft, MealLunch, json.RawMessage(`["Draft Thali"]`), false)
	require.NoError(t, err)

	records, err := repo.ListPublished()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, MealBreakfast, records[0].Meal)
	assert.Equal(t, MealDinner, records[1].Meal)

	all, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryUpdateRecord(t *testing.T) {
	repo := newTestRepo(t)

	date := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
	rec, err := repo.CreateRecord(date, MealSnacks, json.RawMessage(`["Samosa"]`), false)
	require.NoError(t, err)

	published := true
	newDate := date.AddDate(0, 0, 1)
	err = repo.UpdateRecord(rec.ID, &newDate, nil, json.RawMessage(`["Kachori", "Tea"]`), &published)
	require.NoError(t, err)

	updated, err := repo.GetRecordByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "2025-09-11", updated.Date.Format(DateFormat))
	assert.Equal(t, MealSnacks, updated.Meal)
	assert.True(t, updated.Published)
	assert.JSONEq(t, `["Kachori", "Tea"]`, string(updated.Items))
}

func TestRepositoryDeleteRecord(t *testing.T) {
	repo := newTestRepo(t)

	date := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
	rec, err := repo.CreateRecord(date, MealDinner, json.RawMessage(`["Khichdi"]`), true)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRecord(rec.ID))

	got, err := repo.GetRecordByID(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

//   This project is the backend API for the HostelHub mess portal. Weekly mess menus, resident accounts and helper endpoints for our hostel apps.
//   API Copyright (C) 2025 HostelHub
//       This program is free software: you can redistribute it and/or modify
//       it under the terms of the GNU General Public License as published by
//       the Free Software Foundation, either version 3 of the License, or
//       (at your option) any later version.

//       This program is distributed in the hope that it will be useful,
//       but WITHOUT ANY WARRANTY; without even the implied warranty of
//       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//       GNU General Public License for more details.

//       You should have received a copy of the GNU General Public License
//       along with this program.  If not, see <https://www.gnu.org/licenses/>.
