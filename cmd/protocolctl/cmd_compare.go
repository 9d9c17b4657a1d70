package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurostream/protocolengine/internal/adapters/export"
	"github.com/neurostream/protocolengine/internal/application/services"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

type compareOptions struct {
	url          string
	toggles      []string
	sorts        []string
	filterColumn string
	filter       string
	page         int
	exportPath   string
	narrative    bool
}

func newCompareCmd(a *app, opts *rootOptions) *cobra.Command {
	co := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare up to four protocols",
		Long: `compare restores a selection from a shareable URL (its ids parameter),
applies toggles, header clicks, a filter and a page, then prints the table
and the resulting URL.`,
		Example: `  protocolctl compare --toggle p1 --toggle p2
  protocolctl compare --url "https://example.org/compare?ids=p1,p3" --sort "Pulses/Session" --sort "Pulses/Session"
  protocolctl compare --url "?ids=p1,p2,p3" --filter-column Manufacturer --filter "mfg a" --export comparison.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			ctx := cmd.Context()

			location, err := services.NewURLLocation(co.url)
			if err != nil {
				return apperrors.NewValidationError(fmt.Sprintf("invalid --url: %v", err))
			}

			session := services.NewComparatorSession(a.stack.API, location, a.metrics)
			if err := session.LoadCatalog(ctx, ""); err != nil {
				return err
			}
			for _, id := range co.toggles {
				if err := session.Toggle(ctx, id); err != nil {
					if apperrors.IsType(err, apperrors.ErrorTypeSelectionLimit) {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", session.State().Notice)
						continue
					}
					return err
				}
			}
			for _, column := range co.sorts {
				session.Sort(column)
			}
			if co.filter != "" {
				session.SetFilter(co.filterColumn, co.filter)
			}
			if co.page > 0 {
				session.SetPage(co.page)
			}

			st := session.State()
			if st.Comparison.Status == services.ComparisonFailed {
				return errors.Join(errors.New(st.Comparison.Message), st.Comparison.Err)
			}

			narrative := ""
			if st.Comparison.Result != nil {
				narrative = st.Comparison.Result.NarrativeMD
			}

			if co.exportPath != "" {
				if err := exportComparison(co.exportPath, st, narrative); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported comparison to %s\n", co.exportPath)
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					URL      string                   `json:"url"`
					Selected []string                 `json:"selected"`
					State    services.ComparatorState `json:"state"`
				}{location.String(), st.Selected, st})
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, export.RenderTable(st.View))
			if co.narrative && narrative != "" {
				renderer, err := export.NewNarrativeRenderer(opts.style, 100)
				if err != nil {
					fmt.Fprintln(out, narrative)
				} else {
					fmt.Fprint(out, renderer.Render(narrative))
				}
			}
			fmt.Fprintf(out, "URL: %s\n", location.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&co.url, "url", "", "Shareable URL or query string to restore the selection from")
	cmd.Flags().StringArrayVarP(&co.toggles, "toggle", "t", nil, "Select or deselect a protocol id (repeatable, applied in order)")
	cmd.Flags().StringArrayVar(&co.sorts, "sort", nil, "Click a column header (repeatable; clicking twice sorts descending)")
	cmd.Flags().StringVar(&co.filterColumn, "filter-column", "Protocol Name", "Column the filter applies to")
	cmd.Flags().StringVar(&co.filter, "filter", "", "Case-insensitive text the filter column must contain")
	cmd.Flags().IntVar(&co.page, "page", 0, "Page of the table to show")
	cmd.Flags().StringVar(&co.exportPath, "export", "", "Write the comparison as PDF to this path")
	cmd.Flags().BoolVar(&co.narrative, "narrative", false, "Print the comparison narrative")
	return cmd
}

func exportComparison(path string, st services.ComparatorState, narrative string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.NewPDFExporter("TMS Protocol Comparison").Export(f, st.View, narrative); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
