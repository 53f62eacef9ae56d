package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Command-line client for the collaborative blogging platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var a *app
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = newApp()
		return err
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a != nil {
			_ = a.log.Sync()
		}
	}

	appOf := func() *app { return a }
	root.AddCommand(
		newLoginCmd(appOf),
		newRegisterCmd(appOf),
		newLogoutCmd(appOf),
		newWhoamiCmd(appOf),
		newRefreshCmd(appOf),
		newPasswordCmd(appOf),
		newNavigateCmd(appOf),
		newArticlesCmd(appOf),
		newCommentsCmd(appOf),
		newUsersCmd(appOf),
		newStatsCmd(appOf),
		newUploadCmd(appOf),
		newNotificationsCmd(appOf),
		newMetricsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// printJSON is the common output path for structured results.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
