package main

import (
	"fmt"

	"github.com/collabblog/blogclient/internal/api"
	"github.com/collabblog/blogclient/internal/auth/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newUsersCmd(appOf func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer platform users",
	}

	var listParams api.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List users, paginated",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := appOf().users.List(cmd.Context(), listParams)
			if err != nil {
				return err
			}
			for _, u := range page.Users {
				fmt.Printf("%s  %-30s  %-8s  %s\n", u.ID, u.Email, u.Role, u.FullName)
			}
			fmt.Printf("page %d/%d (%d total)\n",
				page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
			return nil
		},
	}
	listFlags(list, &listParams)

	setRole := &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := model.ParseRole(args[1])
			if !ok {
				return fmt.Errorf("unknown role %q (guest|writer|editor|admin)", args[1])
			}
			u, err := appOf().users.UpdateRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appOf().users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, setRole, del)
	return cmd
}

func newStatsCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			// Same gate the dashboard route enforces in the web client.
			loc, err := a.nav.Navigate("/dashboards/admin/overview", nil)
			if err != nil {
				return err
			}
			if loc.Path != "/dashboards/admin/overview" {
				return fmt.Errorf("access denied: %s", loc.Query.Get("message"))
			}

			d, err := a.stats.FetchDashboard(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(d)
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "metrics",
		Short:  "Dump client request metrics",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := prometheus.DefaultGatherer.Gather()
			if err != nil {
				return err
			}
			for _, f := range families {
				fmt.Println(f.String())
			}
			return nil
		},
	}
}
