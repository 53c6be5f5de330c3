package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the RasChat client.
// It registers the chat and token command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "raschat",
		Short: "RasChat client commands",
	}
	root.AddCommand(NewChatCommand(baseURL))
	root.AddCommand(NewTokenCommand())
	return root
}
