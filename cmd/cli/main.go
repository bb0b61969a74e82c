package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"exodash/adapters/excel"
	"exodash/internal"
	catalogapi "exodash/internal/api"
	"exodash/internal/config"
	"exodash/internal/container"
	"exodash/internal/migration"
	"exodash/internal/views"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "exodash-cli",
		Short: "Exoplanet catalog tooling: summaries, exports and database setup",
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newExportCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer reads the configuration and fetches the catalog
func loadContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))

	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := c.LoadCatalog(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// filterFlags mirrors the dashboard controls
type filterFlags struct {
	min   string
	max   string
	sizes []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.min, "min", "", "Exclusive lower bound on planet radius (default: catalog minimum)")
	cmd.Flags().StringVar(&f.max, "max", "", "Exclusive upper bound on planet radius (default: catalog maximum)")
	cmd.Flags().StringSliceVar(&f.sizes, "sizes", nil, "Star size classes to include (default: every observed class)")
}

func (f *filterFlags) values(cmd *cobra.Command) url.Values {
	q := url.Values{}
	if f.min != "" {
		q.Set("min", f.min)
	}
	if f.max != "" {
		q.Set("max", f.max)
	}
	if cmd.Flags().Changed("sizes") {
		q.Set("sizes", strings.Join(f.sizes, ","))
	}
	return q
}

func newSummaryCmd() *cobra.Command {
	var filter filterFlags
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print column statistics and class counts for a filtered subset",
		Long: `Load the catalog, apply the radius and star-size filter and print a JSON summary.

Example: exodash-cli summary --min 0.5 --max 4 --sizes small,similar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			c, err := loadContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			f, err := catalogapi.ParseFilterQuery(filter.values(cmd), c.Catalog.DefaultFilter())
			if err != nil {
				return err
			}
			summary, err := views.Summarize(c.Catalog.Apply(f))
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"source":   c.Catalog.Source(),
				"dropped":  c.Report.InvalidOrbit,
				"filter":   f,
				"summary":  summary,
				"loadedAt": c.Catalog.LoadedAt(),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	filter.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Catalog load timeout")
	return cmd
}

func newExportCmd() *cobra.Command {
	var filter filterFlags
	var output string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a filtered subset to an XLSX workbook",
		Long: `Load the catalog, apply the filter and write the table view as a workbook.

Example: exodash-cli export --max 2 --sizes similar --out earthlike.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			c, err := loadContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			f, err := catalogapi.ParseFilterQuery(filter.values(cmd), c.Catalog.DefaultFilter())
			if err != nil {
				return err
			}
			records := c.Catalog.Apply(f)
			table := views.BuildTable(views.DataTableID, c.Catalog.Columns(), records)

			headers := make([]string, len(table.Columns))
			for i, col := range table.Columns {
				headers[i] = col.Label
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := excel.WriteTable(file, headers, table.Rows); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(records), output)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "exoplanets.xlsx", "Output workbook path")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Catalog load timeout")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [database-url]",
		Short: "Create the session subset tables",
		Long: `Create the Postgres tables used to keep filtered subsets per session.
The URL defaults to DATABASE_URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := os.Getenv("DATABASE_URL")
			if len(args) == 1 {
				dsn = args[0]
			}
			if dsn == "" {
				return fmt.Errorf("no database URL given and DATABASE_URL is unset")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %s\n", runner.Version())
			return nil
		},
	}
}
