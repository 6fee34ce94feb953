package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"molbhav/internal/app"
	"molbhav/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the negotiation service process",
	Long: `Starts the long-running Mol-Bhav process: loads the product and coupon
catalogs, wires the negotiation core's collaborators (hot/durable session
store, bot detector, dialogue generator, quote signer), and serves the
ambient ops HTTP surface (/health, /ready, /metrics). The buyer-facing
negotiate/offer/status routes are served by an external HTTP/JSON shell
that embeds this process's NegotiationService directly.`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("product-catalog", "", "Override PRODUCT_CATALOG_PATH")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	catalogOverride, _ := cmd.Flags().GetString("product-catalog")
	opts := &app.Options{
		ProductCatalogPath: catalogOverride,
	}

	application, err := app.New(cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
