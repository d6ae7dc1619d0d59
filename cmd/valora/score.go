// README: score subcommand; scores a JSON or YAML request file without starting the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"valora/internal/modules/scoring"
)

var ErrInvalidRequest = errors.New("invalid request")

type variantFlag struct {
	variant scoring.Variant
}

var _ pflag.Value = (*variantFlag)(nil)

func (f *variantFlag) String() string { return string(f.variant) }
func (f *variantFlag) Type() string   { return "variant" }

func (f *variantFlag) Set(v string) error {
	variant, err := scoring.ParseVariant(v)
	if err != nil {
		return err
	}
	f.variant = variant
	return nil
}

type formatFlag struct {
	format scoring.Format
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(f.format) }
func (f *formatFlag) Type() string   { return "format" }

func (f *formatFlag) Set(v string) error {
	format, err := scoring.ParseFormat(v)
	if err != nil {
		return err
	}
	f.format = format
	return nil
}

func newScoreCmd() *cobra.Command {
	variant := &variantFlag{variant: scoring.VariantBasic}
	format := &formatFlag{}
	var top int
	cmd := &cobra.Command{
		Use:   "score [file|-]",
		Short: "Score a request file and print the valuations as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			in := cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			fmtUsed := format.format
			if fmtUsed == "" {
				fmtUsed = scoring.FormatFromPath(path)
			}
			return runScore(cmd.Context(), in, cmd.OutOrStdout(), variant.variant, fmtUsed, top)
		},
	}
	cmd.Flags().Var(variant, "variant", "scoring variant (basico|extendido)")
	cmd.Flags().Var(format, "format", "request format (json|yaml); inferred from the file extension when omitted")
	cmd.Flags().IntVar(&top, "top", 0, "print only the n best units, best first (0 keeps input order)")
	return cmd
}

func runScore(ctx context.Context, in io.Reader, out io.Writer, variant scoring.Variant, format scoring.Format, top int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc := scoring.NewService(nil)

	var valuations any
	switch variant {
	case scoring.VariantBasic:
		var req scoring.BasicRequest
		if err := decodeRequest(in, format, &req); err != nil {
			return err
		}
		job, units := req.Input()
		results, err := svc.Evaluate(ctx, variant, job, units)
		if err != nil {
			return err
		}
		valuations = scoring.NewBasicValuations(shortlist(results, top))
	case scoring.VariantExtended:
		var req scoring.ExtendedRequest
		if err := decodeRequest(in, format, &req); err != nil {
			return err
		}
		job, units := req.Input()
		results, err := svc.Evaluate(ctx, variant, job, units)
		if err != nil {
			return err
		}
		valuations = scoring.NewExtendedValuations(shortlist(results, top))
	default:
		return fmt.Errorf("%w: %q", scoring.ErrUnknownVariant, string(variant))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(valuations)
}

func shortlist(results []scoring.Result, top int) []scoring.Result {
	if top <= 0 {
		return results
	}
	return scoring.Rank(results, top)
}

func decodeRequest(in io.Reader, format scoring.Format, req any) error {
	if err := scoring.Decode(in, format, req); err != nil {
		return err
	}
	if err := scoring.Validate(req); err != nil {
		fields := scoring.FieldErrors(err)
		if fields == nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+" ("+f.Rule+")")
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(parts, ", "))
	}
	return nil
}
