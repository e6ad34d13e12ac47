package main

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard accounts",
	}
	cmd.AddCommand(usersListCmd())
	cmd.AddCommand(usersSetRoleCmd())
	return cmd
}

func openAccounts() (*accounts.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store := accounts.NewStore(cfg.Accounts.CSVFile)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAccounts()
			if err != nil {
				return err
			}
			users, err := store.List()
			if err != nil {
				return err
			}

			return writeResult(users, func(w io.Writer) error {
				rows := make([][]string, len(users))
				for i, u := range users {
					rows[i] = []string{u.Username, u.Email, u.Role.String()}
				}
				return renderTable(w, []string{"Username", "Email", "Role"}, rows)
			})
		},
	}
}

func usersSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role USER ROLE",
		Short: "Change the role of an account (admin, user, guest)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := accounts.ParseRole(args[1])
			if err != nil {
				return err
			}
			store, err := openAccounts()
			if err != nil {
				return err
			}
			if err := store.SetRole(args[0], role); err != nil {
				return err
			}
			pterm.Success.Printfln("%s is now %s", args[0], role)
			return nil
		},
	}
}
