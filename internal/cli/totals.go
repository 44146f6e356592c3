package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Pesokrava/storefront/internal/pricing"
	"github.com/Pesokrava/storefront/internal/store/cart"
)

func newTotalsCmd(a *app) *cobra.Command {
	var lines []string

	cmd := &cobra.Command{
		Use:     "totals",
		Short:   "Price a cart against a catalog",
		Example: "  storefrontctl totals --catalog products.json --line 6f1c...=2 --line 9a4b...=1",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadCatalog()
			if err != nil {
				return err
			}

			c := cart.New()
			for _, raw := range lines {
				id, qty, err := parseLine(raw)
				if err != nil {
					return err
				}
				if _, err := c.AddOrIncrement(id, qty); err != nil {
					return fmt.Errorf("line %q: %w", raw, err)
				}
			}

			totals := pricing.Compute(c.Lines(), store.Snapshot(), a.cfg.Pricing.Rules())

			for _, id := range totals.Unpriced {
				a.logger.Warnf("Product %s is not in the catalog; priced at 0", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtotal: %s\n", totals.Subtotal.StringFixed(2))
			fmt.Fprintf(out, "Shipping: %s\n", totals.Shipping.StringFixed(2))
			fmt.Fprintf(out, "Tax:      %s\n", totals.Tax.StringFixed(2))
			fmt.Fprintf(out, "Total:    %s\n", totals.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&lines, "line", nil, "cart line as PRODUCT_ID=QUANTITY (repeatable)")

	return cmd
}

// parseLine splits ID=QTY; a bare ID means quantity 1
func parseLine(raw string) (uuid.UUID, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(raw, "=")

	id, err := uuid.Parse(strings.TrimSpace(idPart))
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("line %q: invalid product id: %w", raw, err)
	}

	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(strings.TrimSpace(qtyPart))
		if err != nil {
			return uuid.Nil, 0, fmt.Errorf("line %q: invalid quantity: %w", raw, err)
		}
	}
	return id, qty, nil
}
