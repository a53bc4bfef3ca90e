package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cmdSend() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Send a test message to the chat webhook and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hdl, err := setupHandler(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := hdl.Send(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
			return err
		},
	}
}
