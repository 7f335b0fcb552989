package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/database"
	"github.com/taskdeck/taskdeck/internal/database/repository"
	"github.com/taskdeck/taskdeck/internal/secrets"
	"github.com/taskdeck/taskdeck/internal/tui"
)

func main() {
	ctx := context.Background()

	// .env is optional; real env vars still win inside config.Load.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// repositories
	userRepo := repository.NewUserRepo(db)
	taskRepo := repository.NewTaskRepo(db)

	provider := authProvider(cfg, userRepo)

	sessionPath, err := secrets.SessionPath()
	if err != nil {
		log.Printf("warn: session cache unavailable: %v", err)
		sessionPath = ""
	}

	resumed := resumeSession(cfg, provider, sessionPath)

	p := tea.NewProgram(tui.New(ctx, cfg, provider, taskRepo, sessionPath, resumed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func authProvider(cfg config.Config, users *repository.UserRepo) auth.Provider {
	switch strings.ToLower(strings.TrimSpace(cfg.Auth.Provider)) {
	case "remote":
		return auth.NewRemoteProvider(cfg.Auth.BaseURL, cfg.Auth.HTTPTimeout)
	default:
		return auth.NewLocalProvider(users, jwtSecret(cfg), cfg.Auth.TokenTTL)
	}
}

// jwtSecret prefers the configured secret and otherwise derives a stable
// per-machine one, so local accounts work without any setup. Tokens minted
// this way stop validating if the hostname or user changes.
func jwtSecret(cfg config.Config) string {
	if s := strings.TrimSpace(cfg.Auth.JWTSecret); s != "" {
		return s
	}
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte("taskdeck-jwt-" + runtime.GOOS + "-" + host + "-" + os.Getenv("USER")))
	return hex.EncodeToString(sum[:])
}

// resumeSession returns the cached session if it is still usable, clearing
// the cache when it is not. A nil return lands the app on the auth screen.
func resumeSession(cfg config.Config, provider auth.Provider, path string) *auth.Session {
	if !cfg.Session.Persist || path == "" {
		return nil
	}
	s, err := secrets.LoadSession(path)
	if err != nil {
		return nil
	}
	if s.Expired() {
		_ = secrets.ClearSession(path)
		return nil
	}
	if local, ok := provider.(*auth.LocalProvider); ok {
		if _, err := local.Validate(s.Token); err != nil {
			_ = secrets.ClearSession(path)
			return nil
		}
	}
	return &s
}
