package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by keyword",
		Long:  "Search titles, extracted text and people. Every word must match; results are ranked with highlighted snippets.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (default from config, 20)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	svc, done := openService()
	defer done()

	results, err := svc.SearchMemories(cmd.Context(), query, limit)
	if err != nil {
		exitErr("search", err)
	}
	printJSON(results)
}
