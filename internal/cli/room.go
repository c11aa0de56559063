package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room inspection commands",
	}

	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomHistoryCmd())

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a live room's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result Room
			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <code>",
		Short: "Show a room's round history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result HistoryResult
			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s/history", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
