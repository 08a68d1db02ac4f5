package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the store, index and recognition tools",
		Run:   runDoctor,
	}

	RootCmd.AddCommand(cmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	svc, done := openService()
	defer done()

	report := svc.Doctor(cmd.Context())
	printJSON(report)
	if !report.Healthy {
		done()
		os.Exit(1)
	}
}
