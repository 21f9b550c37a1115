package menu

import (
	"encoding/json"
	"time"
)

// MealType tags one of the four daily meal slots
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

// Valid reports whether the meal type is one of the four slots.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealSnacks, MealDinner:
		return true
	}
	return false
}

// DayMenu holds the display text for the four meal slots of one day
type DayMenu struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Snacks    string `json:"snacks"`
	Dinner    string `json:"dinner"`
}

// Slot returns the text for a meal slot.
func (d DayMenu) Slot(meal MealType) string {
	switch meal {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	case MealSnacks:
		return d.Snacks
	case MealDinner:
		return d.Dinner
	}
	return ""
}

// SetSlot overwrites the text for a meal slot.
func (d *DayMenu) SetSlot(meal MealType, text string) {
	switch meal {
	case MealBreakfast:
		d.Breakfast = text
	case MealLunch:
		d.Lunch = text
	case MealSnacks:
		d.Snacks = text
	case MealDinner:
		d.Dinner = text
	}
}

// WeekMenu maps lowercase weekday names to their day menus
type WeekMenu map[string]DayMenu

// Record is a date-stamped scheduled menu entry. Items holds either a
// flat JSON array of dish names or an object keyed by meal type.
type Record struct {
	ID        int64           `json:"id"`
	Date      time.Time       `json:"date"`
	Meal      MealType        `json:"meal"`
	Items     json.RawMessage `json:"items"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RecordCreateRequest represents the request body for creating a record
type RecordCreateRequest struct {
	Date      string          `json:"date" binding:"required"`
	Meal      MealType        `json:"meal" binding:"required"`
	Items     json.RawMessage `json:"items" binding:"required"`
	Published bool            `json:"published"`
}

// RecordUpdateRequest represents the request body for partial record updates
type RecordUpdateRequest struct {
	Date      *string         `json:"date"`
	Meal      *MealType       `json:"meal"`
	Items     json.RawMessage `json:"items"`
	Published *bool           `json:"published"`
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
