package main

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "molbhav",
	Short: "Mol-Bhav negotiation engine",
	Long: `Mol-Bhav is the price-negotiation core behind an e-commerce haggling
experience: it scores buyer offers, steps a concession state machine, folds
in invisible coupons, and generates the seller's reply, all behind a
session/offer/status contract an external HTTP/JSON shell calls into.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
