package menu

import (
	"database/sql"
	"encoding/json"
	"time"
)

// DateFormat is the calendar date layout used in the database
const DateFormat = "2006-01-02"

type Repository struct {
	db *sql.DB
}

// NewRepository creates a new menu repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, menu_date, meal_type, items, published, created_at, updated_at`

func scanRecord(scan func(...interface{}) error) (*Record, error) {
	var rec Record
	var date string
	var items string
	err := scan(&rec.ID, &date, &rec.Meal, &items, &rec.Published, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Trim time part if exists
	if len(date) > 10 {
		date = date[:10]
	}
	rec.Date, err = time.Parse(DateFormat, date)
	if err != nil {
		return nil, err
	}
	rec.Items = json.RawMessage(items)
	return &rec, nil
}

// ListPublished returns all published records ordered by date ascending
func (r *Repository) ListPublished() ([]Record, error) {
	return r.list(`
		SELECT ` + recordColumns + ` FROM menu_records
		WHERE published = 1
		ORDER BY menu_date ASC, id ASC
	`)
}

// ListAll returns every record, drafts included, ordered by date ascending
func (r *Repository) ListAll() ([]Record, error) {
	return r.list(`
		SELECT ` + recordColumns + ` FROM menu_records
		ORDER BY menu_date ASC, id ASC
	`)
}

func (r *Repository) list(query string) ([]Record, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetRecordByID returns a record by ID
func (r *Repository) GetRecordByID(id int64) (*Record, error) {
	row := r.db.QueryRow(`
		SELECT `+recordColumns+` FROM menu_records WHERE id = ?
	`, id)
	return scanRecord(row.Scan)
}

// CreateRecord adds a new scheduled menu record
func (r *Repository) CreateRecord(date time.Time, meal MealType, items json.RawMessage, published bool) (*Record, error) {
	result, err := r.db.Exec(`
		INSERT INTO menu_records (menu_date, meal_type, items, published)
		VALUES (?, ?, ?, ?)
	`, date.Format(DateFormat), meal, string(items), published)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetRecordByID(id)
}

// UpdateRecord applies a partial update to a record. Nil fields are left untouched.
func (r *Repository) UpdateRecord(id int64, date *time.Time, meal *MealType, items json.RawMessage, published *bool) error {
	if date != nil {
		if _, err := r.db.Exec("UPDATE menu_records SET menu_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", date.Format(DateFormat), id); err != nil {
			return err
		}
	}
	if meal != nil {
		if _, err := r.db.Exec("UPDATE menu_records SET meal_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *meal, id); err != nil {
			return err
		}
	}
	if items != nil {
		if _, err := r.db.Exec("UPDATE menu_records SET items = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", string(items), id); err != nil {
			return err
		}
	}
	if published != nil {
		if _, err := r.db.Exec("UPDATE menu_records SET published = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *published, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecord removes a record by ID
func (r *Repository) DeleteRecord(id int64) error {
	_, err := r.db.Exec("DELETE FROM menu_records WHERE id = ?", id)
	return err
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
