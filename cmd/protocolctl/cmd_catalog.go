package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newOptionsCmd(a *app, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List diagnoses, comorbidities, previous treatments and contraindications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := a.resolver.Reference()
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), ref)
			}
			out := cmd.OutOrStdout()
			printList(out, "Diagnoses", ref.Diagnoses)
			printList(out, "Comorbidities", ref.Comorbidities)
			printList(out, "Previous treatments", ref.PreviousTreatments)
			printList(out, "Contraindications", ref.Contraindications)
			return nil
		},
	}
}

func newSymptomsCmd(a *app, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms <diagnosis>",
		Short: "List the symptoms offered for a diagnosis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms := a.resolver.Symptoms(args[0])
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), symptoms)
			}
			if len(symptoms) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No symptoms known for %q.\n", args[0])
				return nil
			}
			printList(cmd.OutOrStdout(), "Symptoms for "+args[0], symptoms)
			return nil
		},
	}
}

func newProtocolsCmd(a *app, opts *rootOptions) *cobra.Command {
	var diagnosis string
	cmd := &cobra.Command{
		Use:   "protocols",
		Short: "List the protocols available for comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			records, err := a.stack.API.ListProtocols(cmd.Context(), diagnosis)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{r.ID, r.Label, r.Device, r.EvidenceLevel})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "Label", "Device", "Evidence").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&diagnosis, "diagnosis", "", "Only protocols for this diagnosis")
	return cmd
}

func printList(w io.Writer, title string, values []string) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
	for _, v := range values {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
