package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/collabblog/blogclient/internal/notify"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(appOf func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Real-time notification feed",
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Stream notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			user, ok := a.sess.Current()
			if !ok {
				return fmt.Errorf("not signed in")
			}
			if a.cfg.SocketURL == "" {
				return fmt.Errorf("SOCKET_URL is not configured")
			}

			feed := notify.NewFeed(a.cfg.SocketURL, user.ID, a.sess, a.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				for n := range feed.Updates() {
					fmt.Printf("[%s] %s: %s\n",
						n.CreatedAt.Format("15:04:05"), n.Title, n.Body)
				}
			}()

			err := feed.Run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.AddCommand(watch)
	return cmd
}
