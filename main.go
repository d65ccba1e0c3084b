package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homemart/internal/config"
	"homemart/internal/database"
	"homemart/internal/logger"
)

// cli carries the state shared by every subcommand once the root
// command's pre-run has loaded it.
type cli struct {
	envFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "homemart",
		Short: "HomeMart storefront backend",
		Long: `HomeMart serves the storefront catalog, shopper carts and web checkout,
and the staff endpoints for products and orders.

Settings come from the environment, optionally preloaded from an .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		c.serveCmd(),
		c.migrateCmd(),
		c.seedCmd(),
		c.createUserCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(viper.New(), c.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = log
	return nil
}

// openDB opens the configured database and migrates it when asked to.
func (c *cli) openDB(migrate bool) (*gorm.DB, error) {
	db, err := database.Open(c.cfg.Database)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Database connected", zap.String("driver", c.cfg.Database.Driver))

	if migrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, err
		}
		c.logger.Info("Database migrated")
	}
	return db, nil
}

func (c *cli) closeDB(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		c.logger.Warn("Error closing database", zap.Error(err))
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
