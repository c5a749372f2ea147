package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/BasheerRaj/cliniva-backend-sub008/cmd/http"
	systemcmd "github.com/BasheerRaj/cliniva-backend-sub008/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "cliniva",
	Short: "Cliniva multi-tenant clinic management backend.",
	Long: `Cliniva is a multi-tenant backend for medical clinics. It manages clinic
onboarding, staff and patient membership, multi-session treatment services,
and appointment scheduling through a single unified deployment.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
