package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
)

var blacklistKind string

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Manage the company and job blacklists",
}

// withBlacklist opens the environment and hands fn the store for --kind.
func withBlacklist(cmd *cobra.Command, fn func(bl blacklist.Store) error) error {
	kind, err := blacklist.ParseKind(blacklistKind)
	if err != nil {
		return err
	}
	env, err := initEnv(cmd.Context(), "blacklist")
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env.Blacklist(kind))
}

var blacklistAddCmd = &cobra.Command{
	Use:   "add <value>...",
	Short: "Add company display names or job ids to a blacklist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBlacklist(cmd, func(bl blacklist.Store) error {
			for _, v := range args {
				if err := bl.Add(cmd.Context(), v); err != nil {
					return err
				}
			}
			zap.L().Info("blacklist updated", zap.String("kind", blacklistKind), zap.Int("added", len(args)))
			return nil
		})
	},
}

var blacklistRemoveCmd = &cobra.Command{
	Use:   "remove <value>...",
	Short: "Remove entries from a blacklist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBlacklist(cmd, func(bl blacklist.Store) error {
			for _, v := range args {
				if err := bl.Remove(cmd.Context(), v); err != nil {
					return err
				}
			}
			zap.L().Info("blacklist updated", zap.String("kind", blacklistKind), zap.Int("removed", len(args)))
			return nil
		})
	},
}

var blacklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a blacklist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withBlacklist(cmd, func(bl blacklist.Store) error {
			set, err := bl.Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range set.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		})
	},
}

func init() {
	blacklistCmd.PersistentFlags().StringVar(&blacklistKind, "kind", string(blacklist.KindCompany), "blacklist kind: company or job")
	blacklistCmd.AddCommand(blacklistAddCmd, blacklistRemoveCmd, blacklistListCmd)
	rootCmd.AddCommand(blacklistCmd)
}
