package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hrm-payroll/internal/config"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-payroll/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/hrm-payroll/internal/repository/redis"
	payrollService "github.com/cmlabs-hris/hrm-payroll/internal/service/payroll"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Payroll deduction and payslip tooling",
		Long:          "Operator tooling for the payroll service: deduction previews and payslip cache warmup",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newPreviewCmd(), newWarmupCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payrollctl %s (commit %s)\n", version, commit)
		},
	}
}

// ratesFile is the YAML layout accepted by --rates. Missing keys keep the
// statutory default.
type ratesFile struct {
	SocialInsurance       string `yaml:"social_insurance"`
	HealthInsurance       string `yaml:"health_insurance"`
	UnemploymentInsurance string `yaml:"unemployment_insurance"`
	IncomeTax             string `yaml:"income_tax"`
	FamilyAllowance       string `yaml:"family_allowance"`
	DependentAllowance    string `yaml:"dependent_allowance"`
}

func loadRates(r io.Reader) (payroll.Rates, error) {
	var file ratesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return payroll.Rates{}, fmt.Errorf("failed to decode rates file: %w", err)
	}

	rates := payroll.DefaultRates()
	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"social_insurance", file.SocialInsurance, &rates.SocialInsurance},
		{"health_insurance", file.HealthInsurance, &rates.HealthInsurance},
		{"unemployment_insurance", file.UnemploymentInsurance, &rates.UnemploymentInsurance},
		{"income_tax", file.IncomeTax, &rates.IncomeTax},
		{"family_allowance", file.FamilyAllowance, &rates.FamilyAllowance},
		{"dependent_allowance", file.DependentAllowance, &rates.DependentAllowance},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := decimal.NewFromString(f.value)
		if err != nil || d.IsNegative() {
			return payroll.Rates{}, fmt.Errorf("invalid %s: %q", f.name, f.value)
		}
		*f.dst = d
	}
	return rates, nil
}

// previewOutput is the YAML shape printed by the preview command.
type previewOutput struct {
	Input struct {
		BaseSalary     string `yaml:"base_salary"`
		Bonus          string `yaml:"bonus"`
		Penalty        string `yaml:"penalty"`
		DependentCount int    `yaml:"dependent_count"`
	} `yaml:"input"`
	Breakdown map[string]string `yaml:"breakdown"`
}

func newPreviewOutput(in payroll.CompensationInput, b payroll.DeductionBreakdown) previewOutput {
	var out previewOutput
	out.Input.BaseSalary = in.BaseSalary.String()
	out.Input.Bonus = in.Bonus.String()
	out.Input.Penalty = in.Penalty.String()
	out.Input.DependentCount = in.DependentCount
	out.Breakdown = map[string]string{
		"social_insurance":          b.SocialInsurance.String(),
		"health_insurance":          b.HealthInsurance.String(),
		"unemployment_insurance":    b.UnemploymentInsurance.String(),
		"insurance_total":           b.InsuranceTotal.String(),
		"family_allowance":          b.FamilyAllowance.String(),
		"dependent_deduction_total": b.DependentDeductionTotal.String(),
		"taxable_income":            b.TaxableIncome.String(),
		"income_tax":                b.IncomeTax.String(),
		"gross_pay":                 b.GrossPay.String(),
		"total_deductions":          b.TotalDeductions.String(),
		"net_pay":                   b.NetPay.String(),
	}
	return out
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a deduction breakdown for one employee-month",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			bonus, _ := cmd.Flags().GetString("bonus")
			penalty, _ := cmd.Flags().GetString("penalty")
			dependents, _ := cmd.Flags().GetString("dependents")
			ratesPath, _ := cmd.Flags().GetString("rates")

			rates := payroll.DefaultRates()
			if ratesPath != "" {
				f, err := os.Open(ratesPath)
				if err != nil {
					return fmt.Errorf("failed to open rates file: %w", err)
				}
				defer f.Close()
				if rates, err = loadRates(f); err != nil {
					return err
				}
			}

			in := payroll.NewCompensationInput(
				payroll.ParseAmount(base),
				payroll.ParseAmount(bonus),
				payroll.ParseAmount(penalty),
				payroll.ParseDependentCount(dependents),
			)
			breakdown := payrollService.NewDeductionEngine(rates).Compute(in)

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(newPreviewOutput(in, breakdown))
		},
	}
	cmd.Flags().String("base", "0", "Base salary")
	cmd.Flags().String("bonus", "0", "Bonus for the month")
	cmd.Flags().String("penalty", "0", "Penalty for the month")
	cmd.Flags().String("dependents", "0", "Number of declared dependents")
	cmd.Flags().String("rates", "", "YAML file overriding the statutory rates")
	return cmd
}

func newWarmupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warmup",
		Short: "Generate missing payslip histories for every active employee",
		Long:  "Runs the payslip warmup once against the configured database and redis cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Payroll.CacheBackend != config.CacheBackendRedis {
				return fmt.Errorf("warmup requires PAYSLIP_CACHE_BACKEND=%s", config.CacheBackendRedis)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}

			return runWarmup(ctx, cfg, db, rdb)
		},
	}
}

func runWarmup(ctx context.Context, cfg *config.Config, db *database.DB, rdb *redis.Client) error {
	var ledger payroll.MonthlyLedger = payrollService.NewDemoLedger()
	if cfg.Payroll.LedgerMode == config.LedgerModeRecorded {
		ledger = payrollService.NewRecordedLedger(postgresql.NewPayrollLedgerRepository(db), cfg.Payroll.StandardWorkingDays)
	}

	engine := payrollService.NewDeductionEngine(payroll.Rates{
		SocialInsurance:       cfg.Payroll.SocialInsuranceRate,
		HealthInsurance:       cfg.Payroll.HealthInsuranceRate,
		UnemploymentInsurance: cfg.Payroll.UnemploymentInsuranceRate,
		IncomeTax:             cfg.Payroll.IncomeTaxRate,
		FamilyAllowance:       cfg.Payroll.FamilyAllowance,
		DependentAllowance:    cfg.Payroll.DependentAllowance,
	})
	generator := payrollService.NewPayslipGenerator(engine, ledger, redisRepo.NewPayslipHistoryCache(rdb, cfg.Payroll.CacheTTL))
	warmup := payrollService.NewPayslipWarmup(
		postgresql.NewEmployeeRepository(db),
		payrollService.NewDependentResolver(postgresql.NewProfileRepository(db)),
		generator,
		cfg.Payroll.HistoryMonths,
		cfg.Payroll.WarmupConcurrency,
	)
	return warmup.Run(ctx)
}
