package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var publishMessage string

func newNotesCommand() *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Deliver the review notes",
	}

	notesCmd.AddCommand(&cobra.Command{
		Use:   "email <address>",
		Short: "Email the notes table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := backendClient().EmailNotes(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Notes queued for %s.\n", args[0])
			return nil
		},
	})

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Post the CSV export to the configured channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			published, err := backendClient().PublishNotes(cmd.Context(), publishMessage)
			if len(published) > 0 {
				fmt.Printf("Published to %s.\n", strings.Join(published, ", "))
			}
			return err
		},
	}
	publishCmd.Flags().StringVarP(&publishMessage, "message", "m", "", "Message to post with the file")
	notesCmd.AddCommand(publishCmd)

	return notesCmd
}
