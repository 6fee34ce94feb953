package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"molbhav/internal/coupon"
	"molbhav/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var seedCouponsCmd = &cobra.Command{
	Use:   "seed-coupons",
	Short: "Validate and preview the coupon catalog",
	Long: `Loads the coupon catalog from COUPON_CATALOG_PATH (or --catalog),
validates every entry the same way the negotiation service does at
startup, and prints the ordered match table an operator would use to sanity
check a new catalog before deploying it.`,
	RunE: runSeedCoupons,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(seedCouponsCmd)
	seedCouponsCmd.Flags().String("catalog", "", "Override COUPON_CATALOG_PATH")
}

func runSeedCoupons(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := cfg.CouponCatalogPath
	if override, _ := cmd.Flags().GetString("catalog"); override != "" {
		path = override
	}

	cat, err := coupon.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("load coupon catalog: %w", err)
	}

	if len(cat.Coupons) == 0 {
		fmt.Println("Coupon catalog is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCATEGORY\tDISCOUNT\tTACTICS\tMIN ROUND\n")
	fmt.Fprintf(w, "--\t--------\t--------\t-------\t---------\n")
	for _, c := range cat.Coupons {
		category := c.Category
		if category == "" {
			category = "(any)"
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\t%d\n",
			c.ID, category, c.DiscountPercent*100, strings.Join(c.AllowedTactics, ","), c.MinRound)
	}
	return w.Flush()
}
