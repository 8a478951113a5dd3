package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pole",
		Short:        "Learn to balance a pole on a cart with an actor-critic",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			return flags.Record()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		BalanceCommand(),
		CompareCommand(),
	)

	return cmd
}
