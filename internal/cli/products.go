package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Pesokrava/storefront/internal/domain"
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		category string
		minPrice string
		maxPrice string
		sortBy   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the visible products of a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadCatalog()
			if err != nil {
				return err
			}

			f := domain.DefaultFilters()
			if cmd.Flags().Changed("category") {
				f.Category = &category
			}
			if f.MinPrice, err = priceFlag("min-price", minPrice); err != nil {
				return err
			}
			if f.MaxPrice, err = priceFlag("max-price", maxPrice); err != nil {
				return err
			}
			f.SortBy = domain.SortOrder(sortBy)
			if !f.SortBy.Valid() {
				return fmt.Errorf("unknown sort %q", sortBy)
			}

			var products []domain.Product
			for p := range store.Visible(&f) {
				products = append(products, p)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if products == nil {
					products = []domain.Product{}
				}
				return enc.Encode(products)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Rating)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "exact category")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "inclusive lower price bound")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "inclusive upper price bound")
	cmd.Flags().StringVar(&sortBy, "sort", string(domain.SortFeatured), "featured, price-asc, price-desc, name-asc or name-desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func priceFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
