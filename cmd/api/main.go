package main

import (
	"database/sql"
	"os"
	"time"

	"messapi/internal/auth"
	"messapi/internal/common"
	"messapi/internal/env"
	"messapi/internal/v0/menu"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	// Menu database
	menuDB, err := sql.Open("sqlite3", "./internal/databases/menu.db")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open menu database")
	}
	defer menuDB.Close()

	// Auth database
	authDB, err := sql.Open("sqlite3", "./internal/databases/auth.db")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open auth database")
	}
	defer authDB.Close()

	// Initialize menu components
	menuRepo := menu.NewRepository(menuDB)
	menuHandler := menu.NewHandler(menuRepo)

	// Initialize auth components
	authRepo := auth.NewRepository(authDB)

	// WAL mode for the auth database (better concurrent performance)
	if err := authRepo.EnableWAL(); err != nil {
		log.Warn().Err(err).Msg("failed to enable WAL mode")
	}

	// OAuth configuration (institute Google accounts)
	oauthConfig := auth.NewOAuthConfig(
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGoogleClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGoogleClientSecret, ""),
		},
		env.GetEnv(env.EnvAuthCallbackBaseURL, "http://localhost:8480"),
	)

	// Auth stores
	stateStore := auth.NewOAuthStateStore(authRepo)
	sessionStore := auth.NewSessionStore(
		authRepo,
		env.GetDuration(env.EnvSessionDuration, 30*24*time.Hour),
		env.GetBool(env.EnvSecureCookies, false),
	)
	tokenStore := auth.NewTokenStore(authRepo)
	roleAssigner := auth.NewRoleAssigner(env.GetList(env.EnvAdminEmails, nil))

	// Auth handlers
	authHandler := auth.NewHandler(
		authRepo,
		oauthConfig,
		stateStore,
		sessionStore,
		tokenStore,
		roleAssigner,
	)
	adminHandler := auth.NewAdminHandler(authRepo, tokenStore)
	authMiddleware := auth.NewMiddleware(tokenStore, sessionStore)

	router := gin.Default()

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global)

	// Auth routes (public + session-protected + admin)
	auth.RegisterRoutes(global, authHandler, adminHandler, authMiddleware)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		menu.RegisterRoutes(v0Group, menuHandler, authMiddleware)
	}

	addr := env.GetEnv(env.EnvListenAddr, ":8480")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

/*
This project is the backend API for the HostelHub mess portal. Weekly mess menus, resident accounts and helper endpoints for our hostel apps.
API Copyright (C) 2025 HostelHub
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
