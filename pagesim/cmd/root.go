// Package cmd provides the command-line interface of pagesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/pagesim/config"
	"github.com/sarchlab/pagesim/logging"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

type rootOptions struct {
	envFiles []string
	logLevel string

	cfg *config.Config
}

// newRootCmd builds the command tree. Each call returns fresh flags.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pagesim",
		Short: "pagesim simulates page replacement over a reference trace.",
		Long: `pagesim feeds a trace of page references to FIFO, LRU, ` +
			`second-chance and enhanced second-chance replacement and ` +
			`reports their page faults and disk writes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil,
		"load PAGESIM_* settings from these .env files")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newPoliciesCmd(),
		newShowCmd(),
	)

	return rootCmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadFromEnv(o.envFiles...)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	logging.InitLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	o.cfg = cfg

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
