// Package client contains Cobra CLI commands for RasChat.
package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type wireMessage struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewChatCommand constructs the `chat` command group and subcommands.
func NewChatCommand(baseURL BaseURLFunc) *cobra.Command {
	chatCmd := &cobra.Command{Use: "chat", Short: "Chat log operations"}

	chatCmd.AddCommand(
		newChatPingCommand(baseURL),
		newChatSendCommand(baseURL),
		newChatHistoryCommand(baseURL),
		newChatAuditCommand(baseURL),
	)

	return chatCmd
}

// newChatPingCommand constructs the `chat ping` subcommand.
func newChatPingCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check server liveness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Message string `json:"message"`
			}
			if err := getJSON(baseURL()+"/v1/ping", &resp); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

// newChatSendCommand constructs the `chat send` subcommand.
func newChatSendCommand(baseURL BaseURLFunc) *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Append a message to the chat log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenFlag, _ := cmd.Flags().GetString("token")
			token, err := tokenFromFlagOrEnv(tokenFlag)
			if err != nil {
				return err
			}
			body := map[string]string{"token": token, "message": args[0]}
			if err := postJSON(baseURL()+"/v1/messages/send", body, nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", "OK")
			return nil
		},
	}
	sendCmd.Flags().String("token", "", "Bearer token (or RASCHAT_TOKEN)")
	return sendCmd
}

// newChatHistoryCommand constructs the `chat history` subcommand. Without
// --from it lists the full snapshot; with --from it lists messages stored
// after the given key.
func newChatHistoryCommand(baseURL BaseURLFunc) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List chat log messages, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokenFlag, _ := cmd.Flags().GetString("token")
			from, _ := cmd.Flags().GetString("from")
			filter, _ := cmd.Flags().GetString("filter")
			token, err := tokenFromFlagOrEnv(tokenFlag)
			if err != nil {
				return err
			}

			url := baseURL() + "/v1/messages/list"
			body := map[string]any{"token": token}
			if filter != "" {
				body["filter"] = filter
			}
			if from != "" {
				url = baseURL() + "/v1/messages/from"
				body["start_key"] = from
			}

			var resp struct {
				Messages []wireMessage `json:"messages"`
			}
			if err := postJSON(url, body, &resp); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, m := range resp.Messages {
				_ = enc.Encode(m)
			}
			return nil
		},
	}
	historyCmd.Flags().String("token", "", "Bearer token (or RASCHAT_TOKEN)")
	historyCmd.Flags().String("from", "", "Start after this message key")
	historyCmd.Flags().String("filter", "", "CEL filter (server-side)")
	return historyCmd
}

// newChatAuditCommand constructs the `chat audit` subcommand.
func newChatAuditCommand(baseURL BaseURLFunc) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokenFlag, _ := cmd.Flags().GetString("token")
			limit, _ := cmd.Flags().GetInt("limit")
			token, err := tokenFromFlagOrEnv(tokenFlag)
			if err != nil {
				return err
			}
			var resp struct {
				Entries []json.RawMessage `json:"entries"`
			}
			body := map[string]any{"token": token, "limit": limit}
			if err := postJSON(baseURL()+"/v1/audit/recent", body, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range resp.Entries {
				_, _ = fmt.Fprintln(out, string(e))
			}
			return nil
		},
	}
	auditCmd.Flags().String("token", "", "Bearer token (or RASCHAT_TOKEN)")
	auditCmd.Flags().Int("limit", 20, "Maximum entries to return")
	return auditCmd
}
