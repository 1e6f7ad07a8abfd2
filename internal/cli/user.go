package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/models"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCmd(a), newUserGetCmd(a), newUserPasswdCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var attrs models.UserAttributes
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Long: `Add creates a user account. The password is stored as a bcrypt hash.

Example:
  taskboard user add --username alice --email alice@example.com --password s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				existing, err := m.FindUserByUsername(attrs.Username)
				if err != nil {
					return err
				}
				if existing != nil {
					return usageErrorf("username %q is taken", attrs.Username)
				}

				u := m.NewUser()
				if err := u.Create(attrs); err != nil {
					return err
				}
				if !u.Save() {
					return entityError("create user", u)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), u.View())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %d: %s\n", u.ID(), u.Username())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&attrs.Username, "username", "", "username, 3 to 20 characters (required)")
	cmd.Flags().StringVar(&attrs.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&attrs.Password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				u, err := lookupUser(m, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), u.View())
				}
				printTable(cmd.OutOrStdout(),
					[]string{"ID", "USERNAME", "EMAIL", "CREATED"},
					[][]string{{strconv.FormatInt(u.ID(), 10), u.Username(), u.Email(), formatDate(u.CreatedAt())}},
				)
				return nil
			})
		},
	}
}

func newUserPasswdCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <id|username>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				u, err := lookupUser(m, args[0])
				if err != nil {
					return err
				}
				if !u.SetPassword(password) {
					return entityError("change password", u)
				}
				if !u.Save() {
					return entityError("save user", u)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Password changed for %s\n", u.Username())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// lookupUser finds a user by numeric id, falling back to the username. An
// all-digit username is still found when no user has that id.
func lookupUser(m *models.Manager, key string) (*models.User, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		u, err := m.FindUserByID(id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	u, err := m.FindUserByUsername(key)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %q", types.ErrNotFound, key)
	}
	return u, nil
}
