// Command offlinerender renders a JSON patch offline and writes the result
// as a WAV file.
//
// Usage:
//
//	offlinerender -patch graph.json -out render.wav [flags]
//
// Files referenced by buffer-source nodes are resolved relative to the
// patch file.
//
// Examples:
//
//	offlinerender -patch echo.json -out echo.wav
//	offlinerender -patch lowpass.json -out lp.wav -channels 1 -length 96000 -rate 48000
//	offlinerender -patch hum.json -out hum.wav -no-native-iir -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-webaudio/formats/wav"
	"github.com/cwbudde/algo-webaudio/native/soft"
	"github.com/cwbudde/algo-webaudio/offline"
	"github.com/cwbudde/algo-webaudio/patch"
)

type options struct {
	patch       string
	out         string
	channels    int
	length      int
	rate        float64
	bitDepth    int
	noNativeIIR bool
}

var errUsage = errors.New("-patch and -out are required")

func main() {
	var opts options

	flag.StringVar(&opts.patch, "patch", "", "JSON patch to render")
	flag.StringVar(&opts.out, "out", "", "output WAV file")
	flag.IntVar(&opts.channels, "channels", 2, "number of output channels")
	flag.IntVar(&opts.length, "length", 44100, "render length in sample frames")
	flag.Float64Var(&opts.rate, "rate", 44100, "sample rate in Hz")
	flag.IntVar(&opts.bitDepth, "bits", 16, "output bit depth (16, 24 or 32)")
	flag.BoolVar(&opts.noNativeIIR, "no-native-iir", false, "render IIR filters through the emulation path")
	verbose := flag.Bool("v", false, "verbose (development) logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: offlinerender -patch graph.json -out render.wav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a JSON audio graph offline and writes it as WAV.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logger.Sugar().With("module", "offlinerender")

	err = run(ctx, opts, logger)
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Errorw("render failed", "patch", opts.patch, "error", err)
		os.Exit(1)
	}

	log.Infow("render written", "out", opts.out)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	if opts.patch == "" || opts.out == "" {
		return errUsage
	}

	log := logger.Sugar()

	f, err := os.Open(opts.patch)
	if err != nil {
		return err
	}

	p, err := patch.Parse(f)
	f.Close()

	if err != nil {
		return err
	}

	log.Debugw("patch loaded", "nodes", len(p.Nodes), "connections", len(p.Connections))

	var softOpts []soft.Option
	if opts.noNativeIIR {
		softOpts = append(softOpts, soft.WithoutIIRFilter())
	}

	c, err := offline.New(opts.channels, opts.length, opts.rate,
		offline.WithLogger(logger),
		offline.WithNativeFactory(soft.Factory(softOpts...)))
	if err != nil {
		return err
	}

	_, err = p.Build(ctx, c, patch.WithBaseDir(filepath.Dir(opts.patch)))
	if err != nil {
		return err
	}

	rendered, err := c.StartRendering(ctx)
	if err != nil {
		return err
	}

	out, err := os.Create(opts.out)
	if err != nil {
		return err
	}

	err = wav.Encode(out, rendered, opts.bitDepth)
	if err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
