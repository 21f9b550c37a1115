package menu

import (
	"messapi/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	m := rg.Group("/menu")
	{
		// Public resolved menu
		m.GET("", h.GetDay)
		m.GET("/week", h.GetWeek)

		// Record management: kitchen service tokens or admin sessions
		records := m.Group("/records")
		records.Use(authMiddleware.RequireSessionOrToken())
		{
			records.GET("", h.ListRecords)
			records.POST("", h.PostRecord)
			records.PATCH("/:id", h.PatchRecord)
			records.DELETE("/:id", h.DeleteRecord)
		}
	}
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
