package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-vault/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a memory",
		Long:  "Edit the title, text, date, location, sentiment or person of a memory. Pass an empty string to clear an optional field.",
		Args:  cobra.ExactArgs(1),
		Run:   runUpdate,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("text", "", "New extracted text")
	cmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().String("location", "", "Location")
	cmd.Flags().Float64("sentiment", 0, "Sentiment score in [-1, 1]")
	cmd.Flags().String("person", "", "Person")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	var u model.UpdateRequest
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	u.Title = str("title")
	u.ExtractedText = str("text")
	u.OccurredDate = str("date")
	u.Location = str("location")
	u.Person = str("person")
	if cmd.Flags().Changed("sentiment") {
		v, _ := cmd.Flags().GetFloat64("sentiment")
		u.SentimentScore = &v
	}
	if u.Empty() {
		exitErr("update", fmt.Errorf("nothing to update"))
	}

	svc, done := openService()
	defer done()

	mem, err := svc.UpdateMemory(cmd.Context(), id, u)
	if err != nil {
		exitErr("update", err)
	}
	printJSON(mem)
}
