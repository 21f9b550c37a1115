package menu

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"messapi/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler holds the Repository so menu endpoints can reach the database
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetWeek returns the resolved weekly menu. A failed record fetch
// degrades to the fallback week; it never surfaces to the client.
// GET /menu/week
func (h *Handler) GetWeek(c *gin.Context) {
	records, err := h.repo.ListPublished()
	if err != nil {
		log.Error().Err(err).Msg("menu record fetch failed, serving fallback week")
		records = nil
	}

	resolved := Resolve(FallbackWeek(), records, time.Now())
	c.JSON(http.StatusOK, common.CreateSuccessResponse(resolved))
}

// GetDay returns the resolved menu for a single date's weekday
// GET /menu?date=DDMMYYYY (defaults to today)
func (h *Handler) GetDay(c *gin.Context) {
	target := time.Now()
	if dateParameter := c.Query("date"); dateParameter != "" {
		parsedTime, err := time.Parse("02012006", dateParameter)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid date format. Please use DDMMYYYY"}))
			return
		}
		target = parsedTime
	}

	records, err := h.repo.ListPublished()
	if err != nil {
		log.Error().Err(err).Msg("menu record fetch failed, serving fallback day")
		records = nil
	}

	resolved := Resolve(FallbackWeek(), records, time.Now())
	day := strings.ToLower(target.Weekday().String())

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"day":  day,
		"menu": resolved[day],
	}))
}

// ListRecords returns all scheduled records, drafts included
// GET /menu/records
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.repo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if records == nil {
		records = []Record{}
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"records": records}))
}

// PostRecord creates a scheduled menu record
// POST /menu/records
func (h *Handler) PostRecord(c *gin.Context) {
	var req RecordCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	date, err := time.Parse(DateFormat, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid date format. Please use YYYY-MM-DD"}))
		return
	}
	if !req.Meal.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"meal must be breakfast, lunch, snacks or dinner"}))
		return
	}
	if !ValidItems(req.Items) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"items must be an array of dishes or an object keyed by meal type"}))
		return
	}

	rec, err := h.repo.CreateRecord(date, req.Meal, req.Items, req.Published)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessResponse(gin.H{"record": rec}))
}

// PatchRecord applies a partial update to a scheduled menu record
// PATCH /menu/records/:id
func (h *Handler) PatchRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid record ID"}))
		return
	}

	var req RecordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse(DateFormat, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid date format. Please use YYYY-MM-DD"}))
			return
		}
		date = &parsed
	}
	if req.Meal != nil && !req.Meal.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"meal must be breakfast, lunch, snacks or dinner"}))
		return
	}
	if req.Items != nil && !ValidItems(req.Items) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"items must be an array of dishes or an object keyed by meal type"}))
		return
	}

	existing, err := h.repo.GetRecordByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"record not found"}))
		return
	}

	if err := h.repo.UpdateRecord(id, date, req.Meal, req.Items, req.Published); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	updated, err := h.repo.GetRecordByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"record": updated}))
}

// DeleteRecord removes a scheduled menu record
// DELETE /menu/records/:id
func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid record ID"}))
		return
	}

	if err := h.repo.DeleteRecord(id); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
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
