package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/pagesim/replacement"
	"github.com/spf13/cobra"
)

var policyAliases = map[string]string{
	replacement.NameSecondChance:         "clock",
	replacement.NameEnhancedSecondChance: "esc, enhanced-clock",
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the replacement policies.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "NAME\tDISPLAY NAME\tDEFAULT FRAMES\tALIASES")
			for _, name := range replacement.Names() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					name,
					replacement.DisplayName(name),
					replacement.DefaultCapacity(name),
					policyAliases[name])
			}

			return w.Flush()
		},
	}
}
