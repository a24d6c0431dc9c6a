// Command optimize runs lot-selection calculations from the command line.
// It reads a portfolio CSV and prints the recommended sales as JSON or as
// a CSV trade list.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/database"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/logging"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/repository"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/version"
)

// app holds the wired services shared by all subcommands.
type app struct {
	cfg         *config.Config
	calculation *service.CalculationService
	normalizer  *service.NormalizerService
	export      *service.ExportService
	alternative *service.AlternativeService
	closeDB     func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "optimize",
		Short:   "Tax-lot selection optimizer",
		Long:    "Select which tax lots to sell to hit gain/loss targets or raise cash, with wash-sale screening.",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a.cfg = cfg
			logger := logging.New(cfg.Logging)

			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open fund catalog: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				db.Close()
				return fmt.Errorf("migrate fund catalog: %w", err)
			}
			a.closeDB = db.Close
			logger.Debug().Str("path", cfg.Database.Path).Msg("fund catalog opened")

			catalogService := service.NewCatalogService(repository.NewCatalogRepository(db))
			a.normalizer = service.NewNormalizerService()
			a.export = service.NewExportService()
			a.alternative = service.NewAlternativeService(catalogService)
			a.calculation = service.NewCalculationService(
				cfg.Optimizer,
				a.normalizer,
				service.NewSelectorService(cfg.Optimizer),
				service.NewWashSaleService(),
				catalogService,
			)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeDB != nil {
				return a.closeDB()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("as-of", "", "calculation date (YYYY-MM-DD, defaults to today)")
	rootCmd.PersistentFlags().Bool("csv", false, "print the trade list as CSV instead of JSON")

	rootCmd.AddCommand(newTargetCmd(a))
	rootCmd.AddCommand(newCashCmd(a))
	rootCmd.AddCommand(newAlternativesCmd(a))

	return rootCmd
}

func newTargetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target <portfolio.csv>",
		Short: "Match realized gain/loss targets per term bucket",
		Example: `  optimize target portfolio.csv --target-lt -3000
  optimize target portfolio.csv --target-st 5000 --realized-st 1200 --strategy exact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := model.TargetSpec{}
			target.TargetST, _ = cmd.Flags().GetFloat64("target-st")
			target.TargetLT, _ = cmd.Flags().GetFloat64("target-lt")
			target.RealizedST, _ = cmd.Flags().GetFloat64("realized-st")
			target.RealizedLT, _ = cmd.Flags().GetFloat64("realized-lt")
			strategy, _ := cmd.Flags().GetString("strategy")
			tolerance, _ := cmd.Flags().GetFloat64("tolerance")

			return a.run(cmd, args[0], service.CalculationRequest{
				Target:    &target,
				Mode:      model.ModeTargetPrecision,
				Strategy:  model.Strategy(strategy),
				Tolerance: tolerance,
			})
		},
	}

	cmd.Flags().Float64("target-st", 0, "short-term gain/loss target for the year")
	cmd.Flags().Float64("target-lt", 0, "long-term gain/loss target for the year")
	cmd.Flags().Float64("realized-st", 0, "short-term gains/losses already realized")
	cmd.Flags().Float64("realized-lt", 0, "long-term gains/losses already realized")
	cmd.Flags().String("strategy", "greedy", "selection strategy (greedy, exact)")
	cmd.Flags().Float64("tolerance", 0, "overshoot tolerance override (0 uses the default)")

	return cmd
}

func newCashCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cash <portfolio.csv>",
		Short: "Raise cash while minimizing realized gains",
		Example: `  optimize cash portfolio.csv --needed 10000
  optimize cash portfolio.csv --needed 10000 --on-hand 2500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cash := model.CashRaiseSpec{}
			cash.CashNeeded, _ = cmd.Flags().GetFloat64("needed")
			cash.CurrentCash, _ = cmd.Flags().GetFloat64("on-hand")

			return a.run(cmd, args[0], service.CalculationRequest{
				CashRaise: &cash,
				Mode:      model.ModeCashMaximization,
			})
		},
	}

	cmd.Flags().Float64("needed", 0, "cash amount needed")
	cmd.Flags().Float64("on-hand", 0, "cash already on hand")

	return cmd
}

func newAlternativesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alternatives <symbol>",
		Short: "Suggest replacement funds that avoid a wash sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alternatives, note, err := a.alternative.Alternatives(args[0])
			if err != nil {
				return err
			}
			if note != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), note)
			}
			return printJSON(cmd, alternatives)
		},
	}
}

// run loads the portfolio CSV, executes the calculation, and prints the
// result in the requested format.
func (a *app) run(cmd *cobra.Command, path string, creq service.CalculationRequest) error {
	creq.WashSale = model.DefaultWashSaleConfig()

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if raw, _ := cmd.Flags().GetString("as-of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("as-of: %w", err)
		}
		asOf = parsed.UTC()
	}
	creq.AsOf = asOf

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open portfolio: %w", err)
	}
	defer file.Close()

	lots, warnings, err := a.normalizer.NormalizeCSV(file, asOf)
	if err != nil {
		return err
	}
	creq.Lots = lots

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := a.calculation.Calculate(ctx, creq)
	if err != nil {
		return err
	}
	result.Warnings = append(warnings, result.Warnings...)

	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		for _, warning := range result.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
		}
		return a.export.WriteCSV(cmd.OutOrStdout(), result.Recommendations)
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, data any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
