package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KOMKZ/go-auth-service/application"
)

var (
	configPath string
	envPrefix  string
)

func main() {
	root := &cobra.Command{
		Use:   "authapi",
		Short: "Authentication service: token issuance, verification and revocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return application.New(configPath, envPrefix).Run(context.Background())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs", "config directory")
	root.PersistentFlags().StringVar(&envPrefix, "env-prefix", "AUTHAPI", "environment variable prefix")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
