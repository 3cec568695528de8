// ABOUTME: CLI commands for Charm KV sync operations
// ABOUTME: SSH key auth, so status and an on-demand sync are all that is needed
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/charm/client"

	"github.com/harperreed/energycrm/store"
)

// errNoSync is returned when the configured backend is local only.
var errNoSync = fmt.Errorf("sync needs the charm backend (set ENERGYCRM_BACKEND=charm)")

// SyncStatusCommand shows the remote and this device's charm ID.
func (a *App) SyncStatusCommand(_ context.Context, args []string) error {
	fs := a.flagSet("sync status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.println("Charm Sync Status")
	a.println("─────────────────")
	if a.Syncer == nil {
		a.println("Backend:   local only")
		a.println("\nSet ENERGYCRM_BACKEND=charm to share data between devices.")
		return nil
	}
	a.printf("Server:    %s\n", a.SyncHost)
	a.printf("Auto-sync: %v\n", a.AutoSync)

	cc, err := client.NewClientWithDefaults()
	if err != nil {
		a.println("\nStatus: Not connected")
		return nil //nolint:nilerr // not connected is a valid state
	}

	id, err := cc.ID()
	if err != nil {
		a.println("\nStatus: Connected (ID unavailable)")
	} else {
		a.println("\nStatus: Connected to Charm Cloud")
		a.printf("ID:        %s\n", id)
	}

	a.println("\nCharm uses SSH keys for authentication - no login required!")
	return nil
}

// SyncNowCommand runs Sync and reports the result.
func (a *App) SyncNowCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("sync now")
	verbose := fs.Bool("verbose", false, "Show verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.Syncer == nil {
		return errNoSync
	}
	if *verbose {
		a.println("Syncing with server...")
	}
	if err := a.Sync(ctx); err != nil {
		return err
	}

	a.println("✓ Synced")
	return nil
}

// Sync pushes local writes and pulls remote ones, then reloads the store.
func (a *App) Sync(ctx context.Context) error {
	if a.Syncer == nil {
		return errNoSync
	}
	if err := a.Syncer.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	saved, err := a.Bridge.Saved()
	if err != nil {
		return fmt.Errorf("failed to read synced data: %w", err)
	}
	if err := a.Svc.Store().Dispatch(ctx, store.LoadData{Data: saved}); err != nil {
		return fmt.Errorf("failed to reload after sync: %w", err)
	}
	return nil
}
