package cli

import (
	"bufio"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-vault/internal/vault"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest an image or audio file",
		Long:  "Store the file, extract text (OCR for images, speech-to-text for audio) and EXIF metadata, score sentiment and index the result.",
		Args:  cobra.ExactArgs(1),
		Run:   runIngest,
	}

	cmd.Flags().StringP("title", "t", "", "Title (required)")
	cmd.Flags().StringP("person", "p", "", "Person the memory is about")
	cmd.Flags().String("type", "", "Media type, e.g. image/jpeg (default: detected)")

	cmd.MarkFlagRequired("title")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	person, _ := cmd.Flags().GetString("person")
	contentType, _ := cmd.Flags().GetString("type")
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		exitErr("open media", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if contentType == "" {
		head, _ := r.Peek(512)
		contentType = detectContentType(path, head)
	}

	svc, done := openService()
	defer done()

	mem, err := svc.CreateMemory(cmd.Context(), vault.CreateRequest{
		Title:       title,
		Person:      person,
		ContentType: contentType,
		Filename:    filepath.Base(path),
		Media:       r,
	})
	if err != nil {
		exitErr("ingest", err)
	}
	printJSON(mem)
}

// detectContentType prefers the extension and falls back to sniffing the
// first bytes.
func detectContentType(path string, head []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if len(head) == 0 {
		return ""
	}
	ct := http.DetectContentType(head)
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

