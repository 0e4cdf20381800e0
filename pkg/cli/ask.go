package cli

import (
	"fmt"
	"strings"

	"researchmate/pkg/chat"
	"researchmate/pkg/ui/markdown"
	"researchmate/pkg/ui/styles"

	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the research agents one question and print the answer",
		Long: `Ask sends one question to the backend and prints the reply.

Like the chat panel, a failed request prints the apology message
instead of an error, so the exit status is zero either way.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := chat.NewSession(a.client, chat.WithLogger(a.logger))
			if err := session.Submit(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			reply, _ := session.LastReply()
			writeReply(cmd, reply)
			return nil
		},
	}
}

// writeReply renders markdown for terminals and plain text otherwise.
func writeReply(cmd *cobra.Command, reply chat.Message) {
	out := cmd.OutOrStdout()
	width, isTerm := terminalWidth(out)
	if !isTerm {
		fmt.Fprintln(out, markdown.Plain(reply.Content))
		return
	}

	if reply.Agent != "" {
		fmt.Fprintln(out, styles.AgentBadgeStyle.Render("✦ "+strings.ToUpper(reply.Agent)))
	}
	for _, line := range markdown.Render(reply.Content, width) {
		fmt.Fprintln(out, line)
	}
}
