// Command remezinfo designs a Parks–McClellan FIR filter and prints the
// taps, the equiripple deviation and the exchange statistics.
//
// Usage:
//
//	remezinfo [flags]
//
// Examples:
//
//	remezinfo -taps 31 -bands 0,0.2,0.3,0.5 -desired 1,0
//	remezinfo -taps 63 -bands 0,4000,5000,24000 -desired 1,0 -weights 1,10 -fs 48000
//	remezinfo -taps 31 -class antisymmetric -bands 0.05,0.45 -desired 1 -weights 1
//	remezinfo -v -response 16
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-lti/dsp/filter/fir"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("remezinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	taps := fs.Int("taps", 31, "number of filter taps")
	bands := fs.String("bands", "0,0.2,0.3,0.5", "comma-separated band edges")
	desired := fs.String("desired", "1,0", "desired amplitude per band or per edge")
	weights := fs.String("weights", "", "weight per band (default all 1)")
	class := fs.String("class", "symmetric", "symmetric, antisymmetric or differentiator")
	rate := fs.Float64("fs", 0, "sample rate in Hz; edges are in Hz when set")
	density := fs.Int("density", 16, "grid points per extremal")
	response := fs.Int("response", 0, "print the magnitude at this many frequencies")
	verbose := fs.Bool("v", false, "trace every exchange step")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: remezinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Designs an equiripple FIR filter with the Remez exchange.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	edges, err := parseList(*bands)
	if err != nil {
		fmt.Fprintf(stderr, "error: -bands: %v\n", err)
		return 2
	}
	des, err := parseList(*desired)
	if err != nil {
		fmt.Fprintf(stderr, "error: -desired: %v\n", err)
		return 2
	}
	var wts []float64
	if *weights == "" {
		wts = make([]float64, len(edges)/2)
		for i := range wts {
			wts[i] = 1
		}
	} else if wts, err = parseList(*weights); err != nil {
		fmt.Fprintf(stderr, "error: -weights: %v\n", err)
		return 2
	}
	c, err := parseClass(*class)
	if err != nil {
		fmt.Fprintf(stderr, "error: -class: %v\n", err)
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(stderr, "error: logger: %v\n", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
	}

	opts := []fir.Option{fir.WithGridDensity(*density), fir.WithLogger(logger)}
	if *rate > 0 {
		opts = append(opts, fir.WithSampleRate(*rate))
	}
	d, err := fir.Remez(*taps, edges, des, wts, c, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printDesign(stdout, d, c, *rate, *response); err != nil {
		fmt.Fprintf(stderr, "error: write output: %v\n", err)
		return 1
	}
	return 0
}

func parseList(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseClass(s string) (fir.Class, error) {
	for _, c := range []fir.Class{fir.Symmetric, fir.Antisymmetric, fir.Differentiator} {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

func printDesign(w io.Writer, d fir.Design, c fir.Class, rate float64, points int) error {
	n := len(d.Taps)
	if _, err := fmt.Fprintf(w, "type %d %s, %d taps, %d iterations\n", c.Type(n), c, n, d.Iterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "delta %.6g, deviation %.6g\n\n", d.Delta, d.Deviation); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "n\th[n]\t\n")
	for i, h := range d.Taps {
		fmt.Fprintf(tw, "%d\t%.12f\t\n", i, h)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if points <= 0 {
		return nil
	}
	scale, unit := 1.0, "f"
	if rate > 0 {
		scale, unit = rate, "Hz"
	}
	f := d.Filter()
	fmt.Fprintf(w, "\n")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t|H| [dB]\t\n", unit)
	for k := range points {
		x := 0.5 * float64(k) / float64(max(points-1, 1))
		fmt.Fprintf(tw, "%.4f\t%.2f\t\n", x*scale, f.MagnitudeDB(x, 1))
	}
	return tw.Flush()
}
