// README: bench subcommand; runs HTTP checks and a concurrent load phase against a running server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var ErrBenchFailed = errors.New("bench failed")

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type BenchConfig struct {
	BaseURL     string
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

type Runner struct {
	cfg   BenchConfig
	httpc *http.Client
	out   io.Writer
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg BenchConfig, out io.Writer) *Runner {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
		out:   out,
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Fprintf(r.out, "%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Fprintf(r.out, " (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Fprintf(r.out, " - %s", res.Note)
		}
		fmt.Fprintln(r.out)
	}
	return results
}

// Summarize prints totals and reports whether the run should fail.
func Summarize(out io.Writer, results []Result, strict bool) error {
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Fprintln(out, "\n== Summary ==")
	fmt.Fprintf(out, "PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (strict && skipped > 0) {
		return fmt.Errorf("%w: %d failed, %d skipped", ErrBenchFailed, fail, skipped)
	}
	return nil
}

func newBenchCmd() *cobra.Command {
	var cfg BenchConfig
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run HTTP checks and a load phase against a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()
			out := cmd.OutOrStdout()
			results := NewRunner(cfg, out).RunAll(ctx)
			return Summarize(out, results, cfg.Strict)
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "http://localhost:8000", "API base URL")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on skipped checks")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 60*time.Second, "total timeout")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 20, "workers for the load phase")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 10*time.Second, "length of the load phase (0 skips it)")
	return cmd
}
