// ABOUTME: Data management CLI commands
// ABOUTME: Export, import, clear-and-reseed and storage usage
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/energycrm/export"
)

// ExportCommand writes every collection to a dated file or stdout.
func (a *App) ExportCommand(_ context.Context, args []string) error {
	fs := a.flagSet("export")
	format := fs.String("format", string(export.FormatJSON), "Output format (json, yaml)")
	output := fs.String("output", "", "Output file, '-' for stdout (default: energy-crm-export-YYYY-MM-DD.<format>)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	now := a.Svc.Now()
	doc := export.Build(a.Svc.State(), now)

	if *output == "-" {
		return export.Write(a.Out, doc, f)
	}

	path := *output
	if path == "" {
		path = export.Filename(now, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(file, doc, f); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	a.printf("✓ Exported %d contacts, %d companies, %d deals, %d activities to %s\n",
		len(doc.Contacts), len(doc.Companies), len(doc.Deals), len(doc.Activities), path)
	return nil
}

// ImportCommand merges a previously exported file into the store. Collections
// present in the file replace the current ones; the acting user is kept.
func (a *App) ImportCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("import")
	format := fs.String("format", "", "Input format (json, yaml; default: from file extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := requireID(fs, "file")
	if err != nil {
		return fmt.Errorf("import file is required")
	}

	name := *format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	partial, err := export.Read(file, f)
	if err != nil {
		return err
	}
	if err := export.Import(ctx, a.Svc.Store(), partial); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	st := a.Svc.State()
	a.printf("✓ Imported %s: now %d contacts, %d companies, %d deals, %d activities\n",
		path, len(st.Contacts), len(st.Companies), len(st.Deals), len(st.Activities))
	return nil
}

// ClearDataCommand wipes saved data and reloads the sample data set.
func (a *App) ClearDataCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("clear-data")
	confirm := fs.Bool("confirm", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		ok, err := a.Confirm("Delete all saved CRM data and reload the sample data?")
		if err != nil {
			return err
		}
		if !ok {
			a.println("Aborted")
			return nil
		}
	}

	if err := a.Bridge.Clear(); err != nil {
		return err
	}
	if err := a.Bridge.Hydrate(ctx, a.Svc.Store()); err != nil {
		return err
	}

	a.println("✓ All data cleared; sample data restored")
	return nil
}

// StorageInfoCommand prints the record count and the encoded snapshot size.
func (a *App) StorageInfoCommand(_ context.Context, args []string) error {
	fs := a.flagSet("storage")
	if err := fs.Parse(args); err != nil {
		return err
	}

	usage, err := export.StorageUsage(a.Svc.State())
	if err != nil {
		return err
	}

	a.println("STORAGE")
	a.println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	a.printf("  Total records  %d\n", usage.TotalRecords)
	a.printf("  Data size      %s (%.2f KB)\n", humanize.Bytes(uint64(usage.Bytes)), float64(usage.Bytes)/1024)
	return nil
}
