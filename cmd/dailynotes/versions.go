package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/spf13/cobra"
)

var (
	versionName     string
	exportOutput    string
	summaryProvider string
)

func newVersionsCommand() *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:     "versions",
		Aliases: []string{"v"},
		Short:   "Manage the versions under review",
	}

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List versions in review order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := backendClient().ListVersions(cmd.Context())
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Println("No versions loaded.")
				return nil
			}
			for _, v := range versions {
				fmt.Printf("%-24s %s\n", v.ID, v.Name)
			}
			return nil
		},
	})

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a version with its notes and transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := backendClient().GetVersion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printVersion(v)
			return nil
		},
	})

	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Create a version, or overwrite one with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := backendClient().CreateVersion(cmd.Context(), repository.Version{ID: args[0], Name: versionName})
			if err != nil {
				return err
			}
			fmt.Printf("Stored %s (%s).\n", v.Name, v.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&versionName, "name", "", "Display name (defaults to the id)")
	versionsCmd.AddCommand(addCmd)

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "note <id> <text>",
		Short: "Append a note to a version",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := backendClient().AddNote(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Println("Note added.")
			return nil
		},
	})

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace all versions with the rows of a playlist CSV",
		Long: `Replace all versions with the rows of a playlist CSV.

The first column is the display name. An optional "ID" column supplies the id;
rows without one use the name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			versions, err := backendClient().ImportCSV(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d versions.\n", len(versions))
			return nil
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export versions and notes as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := backendClient().ExportCSV(cmd.Context())
			if err != nil {
				return err
			}
			if exportOutput == "" || exportOutput == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s.\n", exportOutput)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	versionsCmd.AddCommand(exportCmd)

	summarizeCmd := &cobra.Command{
		Use:   "summarize <id>",
		Short: "Generate AI notes from a version's transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := backendClient().GenerateAINotes(cmd.Context(), args[0], summaryProvider)
			if err != nil {
				return err
			}
			fmt.Println(v.AINotes)
			return nil
		},
	}
	summarizeCmd.Flags().StringVar(&summaryProvider, "provider", "", "LLM provider (default: server default)")
	versionsCmd.AddCommand(summarizeCmd)

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := backendClient().DeleteVersion(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s.\n", args[0])
			return nil
		},
	})

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete every version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := backendClient().ClearVersions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d versions.\n", n)
			return nil
		},
	})

	return versionsCmd
}

func printVersion(v *repository.Version) {
	fmt.Printf("%s (%s)\n", v.Name, v.ID)
	if v.Status != "" {
		fmt.Printf("Status: %s\n", v.Status)
	}
	printSection("Notes", v.UserNotes)
	printSection("AI notes", v.AINotes)
	printSection("Transcript", v.Transcript)
}

func printSection(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Printf("\n%s:\n%s\n", title, body)
}
