package command

// root.go defines the root command for the library operator CLI and the
// environment (config, database, logger) its subcommands run against.

import (
	"fmt"
	"log/slog"
	"os"

	"locallibrary/database"
	"locallibrary/internal/config"
	"locallibrary/internal/http-api/repository"
	"locallibrary/internal/http-api/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var dsn string // overrides DATABASE_URL

// success marks the confirmation line of a command.
var success = color.New(color.FgGreen)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "library - LocalLibrary operator tooling",
	Long: `library manages a LocalLibrary installation from the command line:
- Create or update the database schema
- Load a catalog of genres, authors, books and copies from JSON
- Create staff accounts and grant them capabilities

Configuration is read from .env and the environment, like the API server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database URL (defaults to DATABASE_URL)")
}

type env struct {
	cfg *config.Config
	db  *gorm.DB
	log *slog.Logger
}

func (e *env) authService() service.AuthService {
	return service.NewAuthService(
		repository.NewUserRepository(e.db),
		repository.NewRefreshTokenRepository(e.db),
		e.cfg,
		e.log,
	)
}

// openEnv loads the configuration and connects to the database. Tests replace it.
var openEnv = func() (*env, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if dsn != "" {
		cfg.DatabaseURL = dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	// schema changes only happen through the migrate command
	cfg.AutoMigrate = false

	log := cfg.NewLogger()
	slog.SetDefault(log)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return &env{cfg: cfg, db: db, log: log}, func() { database.Close(db) }, nil
}
