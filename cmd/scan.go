package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/extract"
	"github.com/shelfwise/pricescan/internal/pricing"
)

// scanConcurrency bounds parallel extractions when scanning several files.
const scanConcurrency = 4

var (
	scanFormat  string
	scanLocale  string
	scanCompare bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <image> [image...]",
	Short: "Extract a unit price from one or more label photos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanCompare && len(args) != 2 {
			return fmt.Errorf("--compare requires exactly 2 images, got %d", len(args))
		}
		locale := scanLocale
		if locale == "" {
			locale = cfg.Locale
		}

		env := newAppEnv(cfg, false)

		results := make([]*extract.Result, len(args))
		errs := make([]error, len(args))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(scanConcurrency)
		for i, path := range args {
			g.Go(func() error {
				data, err := os.ReadFile(path)
				if err != nil {
					errs[i] = fmt.Errorf("read %s: %w", path, err)
					return nil
				}
				res, err := env.Orchestrator.Extract(ctx, data, http.DetectContentType(data))
				results[i], errs[i] = res, err
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var failed int
		for i, path := range args {
			if errs[i] != nil {
				failed++
				printScanError(path, errs[i])
				continue
			}
			if err := printResult(cmd, results[i], locale); err != nil {
				return err
			}
		}
		if failed == len(args) {
			return fmt.Errorf("all %d scans failed", failed)
		}

		if scanCompare && errs[0] == nil && errs[1] == nil {
			diff, err := pricing.PriceDifference(results[0].UnitPrice, results[1].UnitPrice)
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			cmd.Printf("%s is %+.2f%% vs %s\n",
				results[0].Data.Product.Name, diff, results[1].Data.Product.Name)
		}

		return nil
	},
}

func printResult(cmd *cobra.Command, res *extract.Result, locale string) error {
	switch scanFormat {
	case "json":
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(res)
		if err != nil {
			return err
		}
		cmd.Print(string(out))
	default:
		name := res.Data.Product.Name
		if res.Data.Product.Brand != "" {
			name = res.Data.Product.Brand + " " + name
		}
		cmd.Printf("%s\n", name)
		cmd.Printf("  price:      %s\n", pricing.FormatPrice(res.Data.Price.Value, res.Data.Price.Currency, locale))
		cmd.Printf("  weight:     %s\n", pricing.FormatWeight(res.Weight.OriginalValue, res.Weight.OriginalUnit, locale))
		cmd.Printf("  unit price: %s\n", pricing.FormatUnitPrice(res.UnitPrice, locale))
	}
	return nil
}

func printScanError(path string, err error) {
	appErr := apperr.From(err, apperr.CodeAPIError)
	fmt.Fprintf(os.Stderr, "%s: %s: %s\n", path, apperr.Title(appErr.Code), appErr.UserMessage)
	for _, s := range appErr.Suggestions {
		fmt.Fprintf(os.Stderr, "  - %s\n", s)
	}
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "text", "output format: text, json, or yaml")
	scanCmd.Flags().StringVar(&scanLocale, "locale", "", "BCP 47 locale for formatting (defaults to config)")
	scanCmd.Flags().BoolVar(&scanCompare, "compare", false, "compare the unit prices of exactly two images")
	rootCmd.AddCommand(scanCmd)
}
