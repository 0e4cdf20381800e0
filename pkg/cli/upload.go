package cli

import (
	"fmt"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/upload"

	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a research paper so the agents can answer questions about it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc agentapi.UploadResult
			uploader := upload.NewUploader(a.client, func(r agentapi.UploadResult) { doc = r },
				upload.WithAccept(a.cfg.UploadAccept),
				upload.WithLogger(a.logger))

			if err := uploader.SelectFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			if uploader.Status() != upload.StatusSuccess {
				return fmt.Errorf("upload failed: %w", uploader.LastError())
			}

			index := "indexed"
			if !doc.Indexed() {
				index = "not indexed"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s (%d chars, %s)\n", doc.Filename, doc.TextLength, index)
			if w := doc.WarningText(); w != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}
}
