// Package cli provides the Cobra-based storefrontctl command.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Pesokrava/storefront/internal/config"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/store/catalog"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *logger.Logger
}

// NewRootCmd builds the storefrontctl command tree
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Browse a catalog file and price carts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.New(cfg.Env,
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithLevel(a.v.GetString("log-level")),
			)
			return nil
		},
	}

	root.PersistentFlags().String("catalog", "", "path to a JSON array of products")
	root.PersistentFlags().String("log-level", "warn", "log level")
	_ = a.v.BindPFlag("catalog", root.PersistentFlags().Lookup("catalog"))
	_ = a.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	a.v.SetEnvPrefix("STOREFRONT")
	a.v.AutomaticEnv()

	root.AddCommand(newProductsCmd(a), newTotalsCmd(a))
	return root
}

// Execute runs the root command
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

// loadCatalog reads the catalog file into a fresh store
func (a *app) loadCatalog() (*catalog.Store, error) {
	path := a.v.GetString("catalog")
	if path == "" {
		return nil, fmt.Errorf("--catalog is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	store := catalog.New()
	if err := store.ReplaceAll(products); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	a.logger.Debugf("Loaded %d products from %s", len(products), path)
	return store, nil
}
