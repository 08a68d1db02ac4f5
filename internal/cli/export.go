package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as JSON",
		Long:  "Export every memory as a JSON array ordered by id. Media files are referenced by path, not embedded.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	svc, done := openService()
	defer done()

	memories, err := svc.Export(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(memories)
}
