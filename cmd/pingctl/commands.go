package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogotex/pingbot/internal/app"
	"github.com/gogotex/pingbot/internal/bot"
	"github.com/gogotex/pingbot/internal/config"
	"github.com/gogotex/pingbot/internal/notify"
	"github.com/gogotex/pingbot/internal/tokens"
)

// opener loads configuration and connects the configured backends.
type opener func(ctx context.Context) (*config.Config, *app.Deps, error)

func defaultOpener(ctx context.Context) (*config.Config, *app.Deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	deps, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, deps, nil
}

func newRootCmd(open opener) *cobra.Command {
	var tokenTTL time.Duration
	var outboxLimit int64

	// withDeps runs fn with opened backends and closes them afterwards.
	withDeps := func(fn func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, deps, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()
			return fn(cmd, args, cfg, deps)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "pingctl",
		Short:         "Operate the ping bot store from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	showCmd := &cobra.Command{
		Use:   "show [community]",
		Short: "Print the bot document of a community",
		Args:  cobra.ExactArgs(1),
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			doc, err := deps.Adapter(cfg).Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := doc.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}),
	}

	initCmd := &cobra.Command{
		Use:   "init [community]",
		Short: "Create or complete the bot document from the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			if err := deps.Dispatcher(cfg).HandleInstall(cmd.Context(), bot.InstallEvent{Community: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized r/%s\n", args[0])
			return nil
		}),
	}

	upgradeCmd := &cobra.Command{
		Use:   "upgrade [community]",
		Short: "Add lists for newly configured groups",
		Args:  cobra.ExactArgs(1),
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			if err := deps.Dispatcher(cfg).HandleUpgrade(cmd.Context(), bot.UpgradeEvent{Community: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upgraded r/%s\n", args[0])
			return nil
		}),
	}

	blacklistCmd := &cobra.Command{
		Use:   "blacklist [community] [user]",
		Short: "Bar a user from the bot",
		Args:  cobra.ExactArgs(2),
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			toast := deps.Dispatcher(cfg).BlacklistUser(cmd.Context(), bot.MenuAction{Community: args[0], Moderator: "pingctl", TargetUser: args[1]})
			fmt.Fprintln(cmd.OutOrStdout(), toast)
			return nil
		}),
	}

	statsCmd := &cobra.Command{
		Use:   "stats [community]",
		Short: "Show subscribers and pings per configured group",
		Args:  cobra.ExactArgs(1),
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			o, err := deps.Dispatcher(cfg).Overview(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tSUBSCRIBERS\tPINGS")
			for _, g := range o.Groups {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", g.Name, g.Subscribers, g.Pings)
			}
			return tw.Flush()
		}),
	}

	tokenCmd := &cobra.Command{
		Use:   "token [community]",
		Short: "Issue a webhook token for a community (\"*\" for all)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			tok, err := tokens.GenerateWebhookToken(cfg.Webhook.Secret, args[0], tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	outboxCmd := &cobra.Command{
		Use:   "outbox",
		Short: "List messages waiting in the Redis outbox",
		Args:  cobra.NoArgs,
		RunE: withDeps(func(cmd *cobra.Command, args []string, cfg *config.Config, deps *app.Deps) error {
			ob, ok := deps.Messenger.(*notify.RedisOutbox)
			if !ok {
				return errors.New("OUTBOX_BACKEND is not redis")
			}
			msgs, err := ob.Pending(cmd.Context(), outboxLimit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				target := m.CommentID
				if m.Kind == notify.KindPrivateMessage {
					target = "u/" + m.To
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%q\n", m.Kind, target, m.Text)
			}
			return nil
		}),
	}
	outboxCmd.Flags().Int64Var(&outboxLimit, "limit", 20, "maximum messages to list (0 for all)")

	rootCmd.AddCommand(showCmd, initCmd, upgradeCmd, blacklistCmd, statsCmd, tokenCmd, outboxCmd)
	return rootCmd
}
