package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/shopadmin/internal/bootstrap"
	"github.com/creamcroissant/shopadmin/internal/job"
	"github.com/creamcroissant/shopadmin/internal/migrations"
	"github.com/creamcroissant/shopadmin/internal/repository/sqlite"
	"github.com/creamcroissant/shopadmin/internal/support/hash"
)

func init() {
	// Migrate
	var migrateStatus bool
	var migrateRollback bool
	var migrateCmd = &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Local database migration management",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenSQLite(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Printf("Using DB path: %s\n", cfg.DB.Path)

			if migrateStatus {
				return migrations.Status(db)
			}
			if migrateRollback {
				return migrations.Down(db)
			}

			action := "up"
			if len(args) > 0 {
				action = args[0]
			}
			switch action {
			case "up":
				return migrations.Up(db)
			case "down":
				return migrations.Down(db)
			case "status":
				return migrations.Status(db)
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}
		},
	}
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show migration status")
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "Rollback the last migration")
	rootCmd.AddCommand(migrateCmd)

	// Seed
	var seedFile string
	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load YAML order fixtures into the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedFile == "" {
				return fmt.Errorf("--file is required")
			}
			in, err := os.Open(seedFile)
			if err != nil {
				return fmt.Errorf("open fixtures: %w", err)
			}
			defer in.Close()
			orders, err := sqlite.LoadFixtures(in)
			if err != nil {
				return err
			}

			store, closeStore, err := openLocalStore()
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.Seed(cmd.Context(), orders)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d orders.\n", n)
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file")
	rootCmd.AddCommand(seedCmd)

	// Orders
	rootCmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "List orders in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := bootstrap.Build(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer app.Close()

			orders, err := app.Orders.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCustomer\tTotal\tStatus\tItems")
			for _, o := range orders {
				status := string(o.Status)
				if !o.Status.IsSet() {
					status = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%d\n", o.ID, o.CustomerName(), o.Total, status, len(o.CartItems))
			}
			return w.Flush()
		},
	})

	// Probe
	rootCmd.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Check once that the order store answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			app, err := bootstrap.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			probe, err := job.NewContentProbeJob(app.Health, app.Registry, logger)
			if err != nil {
				return err
			}
			if err := job.NewScheduler(logger).RunOnce(cmd.Context(), probe); err != nil {
				return err
			}
			fmt.Println("Order store reachable.")
			return nil
		},
	})

	// Backup
	var backupOutput string
	var backupCompress bool
	var backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			target := backupOutput
			if target == "" {
				backupDir := filepath.Join(filepath.Dir(cfg.DB.Path), "backups")
				if err := os.MkdirAll(backupDir, 0o755); err != nil {
					return fmt.Errorf("create backup dir: %w", err)
				}
				ext := ".db"
				if backupCompress {
					ext += ".gz"
				}
				target = filepath.Join(backupDir, fmt.Sprintf("shopadmin_%s%s", time.Now().Format("20060102_150405"), ext))
			}

			db, err := bootstrap.OpenSQLite(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			tempFile := target
			if backupCompress {
				if strings.HasSuffix(target, ".gz") {
					tempFile = strings.TrimSuffix(target, ".gz")
				} else {
					tempFile = target + ".tmp"
				}
			}
			if _, err := db.ExecContext(cmd.Context(), "VACUUM INTO ?", tempFile); err != nil {
				return fmt.Errorf("sqlite vacuum into: %w", err)
			}
			if backupCompress {
				err := compressFile(tempFile, target)
				os.Remove(tempFile)
				if err != nil {
					return err
				}
			}
			fmt.Printf("Backup created at %s\n", target)
			return nil
		},
	}
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "Output file path")
	backupCmd.Flags().BoolVar(&backupCompress, "compress", false, "Compress output with gzip")
	rootCmd.AddCommand(backupCmd)

	// Hash password
	var hashCost int
	var hashCmd = &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash usable as admin.password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := hash.NewBcryptHasher(hashCost)
			if err != nil {
				return err
			}
			hashed, err := hasher.Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hashed)
			return nil
		},
	}
	hashCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost")
	rootCmd.AddCommand(hashCmd)

	// Version
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shopadmin %s\n", Version)
			fmt.Printf("Commit: %s\n", Commit)
			fmt.Printf("Build Time: %s\n", BuildTime)
		},
	})
}

// openLocalStore opens and migrates the local database without resolving
// credentials, so seeding works before admin.* is configured.
func openLocalStore() (*sqlite.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return sqlite.NewStore(db), func() { db.Close() }, nil
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}
