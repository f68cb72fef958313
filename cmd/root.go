package cmd

import "github.com/spf13/cobra"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nebify",
	Short: "Credit assistant chatbot and loan simulator",
	Long: `Nebify serves the credit site's chatbot widget and loan simulator.
The chatbot answers from an ordered keyword rule table; the simulator
amortizes a loan, scores its risk and compares it with a recommended
20% down, 15 year alternative.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
