package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/surveyfax/surveyfax/internal/config"
	"github.com/surveyfax/surveyfax/internal/domain/organization"
	"github.com/surveyfax/surveyfax/internal/domain/report"
	"github.com/surveyfax/surveyfax/internal/platform/db"
	"github.com/surveyfax/surveyfax/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the report archive schema",
	}

	newMigrator := func(cmd *cobra.Command) (*db.Migrator, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if !cfg.UsePostgres() {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.MigrationsDir
		}
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		return db.NewMigrator(pool, db.MigrationsFS(dir, migrations.FS)), pool.Close, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closePool, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closePool()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR, then the embedded set)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closePool, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR, then the embedded set)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report request to a PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			coverPath, _ := cmd.Flags().GetString("cover-template")
			pageSize, _ := cmd.Flags().GetString("page-size")

			body, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			req, err := report.ParseRequest(body)
			if err != nil {
				return err
			}

			size, err := report.ParsePageSize(pageSize)
			if err != nil {
				return err
			}
			layout := report.DefaultLayout()
			layout.PageSize = size
			renderer := report.NewRenderer(
				report.WithLayout(layout),
				report.WithCoverSource(report.NewCoverSource(coverPath)),
			)

			doc, err := renderer.Render(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output == "" {
				output = report.FileName(req.Organization.Name)
			}
			if err := os.WriteFile(output, doc.Bytes, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", filepath.Clean(output), doc.Pages)
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "Render request JSON file, or - for stdin")
	cmd.Flags().StringP("output", "o", "", "Output PDF path (defaults to the organization file name)")
	cmd.Flags().String("cover-template", "", "Cover template YAML (defaults to the built-in template)")
	cmd.Flags().String("page-size", report.PageSizeA4, "Page size: A4 or Letter")
	return cmd
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a survey entity into an organization record",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			body, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			org, err := organization.Normalize(body)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(org)
		},
	}
	cmd.Flags().StringP("input", "i", "", "Survey entity JSON file, or - for stdin")
	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "Print the page count and text of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := report.Inspect(args[0])
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			w := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(w).Encode(in)
			}
			fmt.Fprintf(w, "Pages: %d\n", in.Pages)
			for i, text := range in.Text {
				fmt.Fprintf(w, "--- page %d ---\n%s\n", i+1, text)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}
