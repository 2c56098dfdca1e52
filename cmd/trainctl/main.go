package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/gateway/razorpay"
	"github.com/Domenick1991/travelease/internal/pricing"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/trains"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trainctl",
		Short:         "Inspect the TravelEase train catalogue and operate the service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("json", false, "output as JSON")
	rootCmd.PersistentFlags().Int("discount", 15, "student discount percent")

	rootCmd.AddCommand(stationsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(distanceCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(migrateCmd())

	return rootCmd
}

func newTrainService(cmd *cobra.Command) *trains.TrainService {
	discount, _ := cmd.Flags().GetInt("discount")
	return trains.NewTrainService(repository.NewMemoryTrainRepository(), discount)
}

func stationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations [query]",
		Short: "List stations matching a name, code or city",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			stations, err := newTrainService(cmd).Stations(cmd.Context(), query)
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), stations)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tCITY")
			for _, s := range stations {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Code, s.Name, s.City)
			}
			return tw.Flush()
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search FROM TO DATE",
		Short: "Search trains between two stations on a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := newTrainService(cmd).Search(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no trains found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCHEDULE\tTRAIN\tDEPART\tARRIVE\tDURATION\tSEATS\tFARE")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%d\t₹%.2f\n",
					r.ID, r.Train.Number, r.Train.Name, r.DepartureTime, r.ArrivalTime,
					r.Duration, r.SeatsAvailable, pricing.Rupees(r.PricePaise))
			}
			return tw.Flush()
		},
	}
}

func distanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance FROM TO",
		Short: "Great-circle distance between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newTrainService(cmd).Distance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s: %.2f km\n", result.From.Name, result.To.Name, result.DistanceKm)
			return nil
		},
	}
}

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote SCHEDULE",
		Short: "Price a booking on a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			passengers, _ := cmd.Flags().GetInt("passengers")
			student, _ := cmd.Flags().GetBool("student")

			quote, err := newTrainService(cmd).Quote(cmd.Context(), args[0], passengers, student)
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), quote)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d × ₹%.2f = ₹%.2f\n", quote.Passengers, pricing.Rupees(quote.UnitPaise), pricing.Rupees(quote.TotalPaise))
			if quote.DiscountPaise > 0 {
				fmt.Fprintf(out, "student discount %d%%: -₹%.2f\n", quote.DiscountPercent, pricing.Rupees(quote.DiscountPaise))
			}
			fmt.Fprintf(out, "amount due: ₹%.2f\n", pricing.Rupees(quote.AmountDuePaise))
			return nil
		},
	}
	cmd.Flags().IntP("passengers", "p", 1, "number of passengers (1-6)")
	cmd.Flags().BoolP("student", "s", false, "apply the student discount")
	return cmd
}

func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign ORDER_ID PAYMENT_ID",
		Short: "Compute a Razorpay payment signature, for testing verification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				secret = os.Getenv("RAZORPAY_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret or RAZORPAY_SECRET is required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), razorpay.Signature(secret, args[0], args[1]))
			return nil
		},
	}
	cmd.Flags().String("secret", "", "Razorpay key secret")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := config.LoadEnvFiles(".env"); err != nil {
				return err
			}
			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			if err := repository.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
	cmd.Flags().String("config", "config.yaml", "path to the config file")
	return cmd
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
