package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nebify-credit/domain"
	"nebify-credit/service"
)

var (
	simAmount float64
	simRate   float64
	simTerm   int
	simDown   float64
	simPreset string
	simJSON   bool
	simExport bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the loan simulator for one scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		svc := buildServices(ctx, cfg, logger)
		defer svc.close()

		var sim domain.LoanSimulation
		if simPreset != "" {
			sim, err = svc.simulator.SimulatePreset(ctx, simPreset)
		} else {
			sim, err = svc.simulator.Simulate(ctx, domain.LoanScenario{
				Amount:       simAmount,
				InterestRate: simRate,
				TermYears:    simTerm,
				DownPayment:  simDown,
			})
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case simExport:
			export, _ := svc.simulator.Export(sim)
			return writeJSON(out, export)
		case simJSON:
			return writeJSON(out, sim)
		default:
			printSimulation(out, sim)
			return nil
		}
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSimulation(w io.Writer, sim domain.LoanSimulation) {
	c := sim.Calculations
	alt := sim.Comparison.Alternative

	fmt.Fprintf(w, "Loan amount:      %s\n", service.FormatCurrency(sim.Scenario.Amount))
	fmt.Fprintf(w, "Down payment:     %s\n", service.FormatCurrency(sim.Scenario.DownPayment))
	fmt.Fprintf(w, "Interest rate:    %.2f%%\n", sim.Scenario.InterestRate)
	fmt.Fprintf(w, "Term:             %d years\n\n", sim.Scenario.TermYears)

	fmt.Fprintf(w, "Monthly payment:  %s\n", service.FormatCurrency(c.MonthlyPayment))
	fmt.Fprintf(w, "Total payment:    %s\n", service.FormatCurrency(c.TotalPayment))
	fmt.Fprintf(w, "Total interest:   %s\n", service.FormatCurrency(c.TotalInterest))
	fmt.Fprintf(w, "Principal:        %s\n", service.FormatCurrency(c.Principal))
	fmt.Fprintf(w, "Loan-to-value:    %.1f%%\n\n", c.LoanToValuePct)

	fmt.Fprintf(w, "Risk:             %s (%d/100)\n", sim.Risk.Level, sim.Risk.Score)
	fmt.Fprintf(w, "                  %s\n\n", sim.RiskDescription)

	fmt.Fprintf(w, "Recommended (20%% down, %d years):\n", alt.Scenario.TermYears)
	fmt.Fprintf(w, "  Monthly payment %s\n", service.FormatCurrency(alt.MonthlyPayment))
	fmt.Fprintf(w, "  Total interest  %s\n", service.FormatCurrency(alt.TotalInterest))
	fmt.Fprintf(w, "  Risk            %s\n", alt.Risk.Level)

	if sim.Explanation != "" {
		fmt.Fprintf(w, "\n%s\n", sim.Explanation)
	}
}

func init() {
	d := service.DefaultScenario
	simulateCmd.Flags().Float64Var(&simAmount, "amount", d.Amount, "loan amount")
	simulateCmd.Flags().Float64Var(&simRate, "rate", d.InterestRate, "annual interest rate in percent")
	simulateCmd.Flags().IntVar(&simTerm, "term", d.TermYears, "term in years")
	simulateCmd.Flags().Float64Var(&simDown, "down", d.DownPayment, "down payment")
	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "preset scenario: "+strings.Join(service.PresetNames(), ", "))
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "print the full simulation as JSON")
	simulateCmd.Flags().BoolVar(&simExport, "export", false, "print the export document")
	rootCmd.AddCommand(simulateCmd)
}
