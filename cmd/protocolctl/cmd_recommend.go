package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/neurostream/protocolengine/internal/adapters/export"
	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

type recommendOptions struct {
	diagnosis          string
	symptoms           []string
	comorbidities      []string
	previousTreatments []string
	contraindications  []string
	age                int
	exportPath         string
}

func newRecommendCmd(a *app, opts *rootOptions) *cobra.Command {
	ro := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend protocols for a diagnosis and its symptoms",
		Example: `  protocolctl recommend --diagnosis PTSD --symptom "Intrusive Thoughts"
  protocolctl recommend --diagnosis "Major Depressive Disorder" --symptom Anhedonia --comorbidity Anxiety --age 70`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			ctx := cmd.Context()

			session := services.NewProtocolToolSession(a.stack.API, a.resolver, services.NewRecommendationService(nil))
			if err := session.LoadDataset(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			session.SetDiagnosis(ro.diagnosis)
			for _, symptom := range ro.symptoms {
				if _, err := session.ToggleSymptom(symptom); err != nil {
					return err
				}
			}
			session.SetComorbidities(ro.comorbidities)
			session.SetPreviousTreatments(ro.previousTreatments)
			session.SetContraindications(ro.contraindications)
			if ro.age > 0 {
				session.SetField(entities.FieldAge, strconv.Itoa(ro.age))
			}

			recommendations := session.Generate(ctx)

			if ro.exportPath != "" {
				if err := exportRecommendations(ro.exportPath, session.State().Selection, recommendations); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported recommendations to %s\n", ro.exportPath)
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Selection       entities.PatientSelection `json:"selection"`
					Recommendations []entities.Recommendation `json:"recommendations"`
					Disclaimer      string                    `json:"disclaimer"`
				}{session.State().Selection, recommendations, entities.Disclaimer})
			}
			fmt.Fprint(cmd.OutOrStdout(), export.RenderRecommendations(recommendations))
			return nil
		},
	}

	cmd.Flags().StringVarP(&ro.diagnosis, "diagnosis", "d", "", "Diagnosis")
	cmd.Flags().StringArrayVarP(&ro.symptoms, "symptom", "s", nil, "Symptom (repeatable)")
	cmd.Flags().StringArrayVar(&ro.comorbidities, "comorbidity", nil, "Comorbidity (repeatable)")
	cmd.Flags().StringArrayVar(&ro.previousTreatments, "previous-treatment", nil, "Previous treatment (repeatable)")
	cmd.Flags().StringArrayVar(&ro.contraindications, "contraindication", nil, "Contraindication (repeatable)")
	cmd.Flags().IntVar(&ro.age, "age", 0, "Patient age in years")
	cmd.Flags().StringVar(&ro.exportPath, "export", "", "Write a PDF report to this path")
	return cmd
}

func exportRecommendations(path string, selection entities.PatientSelection, recommendations []entities.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	exporter := export.NewPDFExporter("TMS Protocol Recommendations")
	if err := exporter.ExportRecommendations(f, selection, recommendations); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
