// ABOUTME: User CLI commands
// ABOUTME: List the sales team, switch the acting user and edit profiles
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
)

func (a *App) ListUsersCommand(_ context.Context, args []string) error {
	fs := a.flagSet("list-users")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	current := a.Svc.CurrentUserID()

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tNAME\tROLE\tTERRITORY\tEMAIL\tID")
	_, _ = fmt.Fprintln(w, " \t----\t----\t---------\t-----\t--")
	for _, u := range st.Users {
		marker := " "
		if u.ID == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, u.Name, u.Role, dash(u.Territory), u.Email, u.ID)
	}
	_ = w.Flush()
	return nil
}

// SetUserCommand switches the acting user by ID or name.
func (a *App) SetUserCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("set-user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ref, err := requireID(fs, "user")
	if err != nil {
		return err
	}

	u, err := a.Svc.SetCurrentUser(ctx, ref)
	if err != nil {
		return err
	}
	a.printf("✓ Acting as %s (%s)\n", u.Name, u.Role)
	return nil
}

// UpdateProfileCommand edits a user, the current one unless an ID is given.
func (a *App) UpdateProfileCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("update-profile")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	role := fs.String("role", "", "Role (sales_rep, sales_manager, business_dev)")
	territory := fs.String("territory", "", "Territory")
	avatar := fs.String("avatar", "", "Avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visited(fs)

	id := a.Svc.CurrentUserID()
	if fs.NArg() > 0 {
		u, ok := crm.FindUser(a.Svc.State(), fs.Arg(0))
		if !ok {
			return fmt.Errorf("user not found: %s", fs.Arg(0))
		}
		id = u.ID
	}
	if id == "" {
		return fmt.Errorf("no current user; pass a user ID")
	}

	u, err := a.Svc.UpdateProfile(ctx, id, func(u *models.User) {
		setString(set, "name", &u.Name, *name)
		setString(set, "email", &u.Email, *email)
		setString(set, "role", &u.Role, models.Role(*role))
		setString(set, "territory", &u.Territory, *territory)
		setString(set, "avatar", &u.Avatar, *avatar)
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	a.printf("✓ Profile updated: %s (ID: %s)\n", u.Name, u.ID)
	return nil
}
