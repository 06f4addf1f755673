package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fieldlogger/internal/config"
	"fieldlogger/internal/db"
	gormrepository "fieldlogger/internal/repository/gorm"
)

var errNotConfirmed = errors.New("refusing to purge without --yes")

type purgeOptions struct {
	ConfigPath string
	EnvOnly    bool
	Yes        bool
}

func main() {
	if err := newPurgeCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newPurgeCommand(out io.Writer) *cobra.Command {
	opts := &purgeOptions{}

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored inspection",
		Long:  "Deletes all rows from the inspections table of the configured database. Subscribers of a running server see the change on the next save.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return errNotConfirmed
			}
			n, err := purge(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted %d inspection(s)\n", n)
			return nil
		},
	}
	cmd.SetOut(out)

	cmd.Flags().StringVar(&opts.ConfigPath, "config", envOr("FL_CONFIG", "config/config.yaml"), "config file")
	cmd.Flags().BoolVar(&opts.EnvOnly, "env-only", envBool("FL_ENV_ONLY"), "read configuration from the environment only")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm the purge")
	return cmd
}

func purge(ctx context.Context, opts purgeOptions) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.ConfigPath, opts.EnvOnly)
	if err != nil {
		return 0, err
	}
	if strings.EqualFold(cfg.DB.Driver, db.DriverMemory) {
		return 0, errors.New("db.driver=memory has nothing persistent to purge")
	}
	conn, err := db.Open(cfg.DB)
	if err != nil {
		return 0, err
	}
	defer db.Close(conn)
	if err := db.AutoMigrate(conn); err != nil {
		return 0, err
	}
	return gormrepository.New(conn.Gorm).PurgeAll(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return strings.EqualFold(v, "true") || v == "1"
}
