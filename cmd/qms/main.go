package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "qms",
		Short:         "Healthcare QMS record keeper",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: ./config.yaml if present)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newHashPasswordCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("❌ qms failed")
		os.Exit(1)
	}
}
