package cli

import (
	"errors"
	"fmt"
	"os"

	"researchmate/pkg/chat"
	"researchmate/pkg/ui"
	"researchmate/pkg/upload"
	"researchmate/pkg/workspace"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("the interactive UI needs a terminal; use 'researchmate ask' or 'researchmate upload' instead")

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	ws := workspace.New(workspace.WithLogger(a.logger))
	session := chat.NewSession(a.client, chat.WithLogger(a.logger))
	uploader := upload.NewUploader(a.client, ws.SetActive,
		upload.WithAccept(a.cfg.UploadAccept),
		upload.WithLogger(a.logger))

	model := ui.NewModel(cmd.Context(), ui.Deps{
		Session:   session,
		Uploader:  uploader,
		Workspace: ws,
		Pinger:    a.client,
		Backend:   a.cfg.APIURL,
		Logger:    a.logger,
	})

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui error: %w", err)
	}
	a.logger.Info("researchmate_exit", "messages", session.Len())
	return nil
}
