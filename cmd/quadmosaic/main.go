// Command quadmosaic turns a numbered frame sequence into a quadtree mosaic
// animation built from tinted copies of a sprite sequence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/gogpu/mosaic"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	def := mosaic.DefaultBatchConfig()
	fs := pflag.NewFlagSet("quadmosaic", pflag.ContinueOnError)
	fs.SortFlags = false

	var (
		anim       = fs.StringP("anim", "a", def.AnimPattern, "path pattern to the animation frames")
		repeat     = fs.IntP("repeat", "r", def.Repeat, "number of times to repeat each animation frame")
		input      = fs.StringP("input", "i", def.InputPattern, "path pattern to input frames")
		output     = fs.StringP("output", "o", def.OutputPattern, "path pattern to output frames")
		mode       = fs.StringP("mode", "m", "color", "either 'bw' or 'color'")
		similarity = fs.IntP("similarity", "s", def.Params.Policy.Threshold, "similarity threshold for colors (0-255)")
		background = fs.StringP("background", "b", "#000000", "background color (#rgb or #rrggbb)")
		outRes     = fs.IntP("out-resolution", "p", 0, "output vertical resolution (480 when given without a value)")
		minSize    = fs.Int("min-size", def.Params.MinSize, "minimum leaf dimension")
		animStart  = fs.Int("anim-start", def.AnimStart, "first frame index of animation frames")
		inputStart = fs.Int("input-start", def.InputStart, "first frame index of input frames")
		workers    = fs.IntP("workers", "j", 0, "worker count (0 = number of CPUs)")
		verbose    = fs.BoolP("verbose", "v", false, "log engine lifecycle details")
		help       = fs.BoolP("help", "h", false, "print usage")
	)
	fs.Lookup("out-resolution").NoOptDefVal = "480"
	printUsage := func(w io.Writer) {
		fmt.Fprintf(w, "Processes a sequence of frames into a quadtree animation.\n\nUsage:\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "quadmosaic: %v\nRun 'quadmosaic --help' for usage.\n", err)
		return 2
	}
	if *help {
		printUsage(os.Stdout)
		return 0
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "quadmosaic: unexpected arguments %q (use -p=720 for an explicit resolution)\n", fs.Args())
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	mosaic.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m, err := mosaic.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	bg, err := mosaic.ParseColor(*background)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := mosaic.BatchConfig{
		AnimPattern:   *anim,
		AnimStart:     *animStart,
		InputPattern:  *input,
		InputStart:    *inputStart,
		OutputPattern: *output,
		Repeat:        *repeat,
		Params: mosaic.EngineParams{
			MinSize:    *minSize,
			Background: bg,
			Policy:     mosaic.Policy{Mode: m, Threshold: *similarity},
		},
		OutputHeight: *outRes,
		Workers:      *workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := mosaic.RunBatch(ctx, cfg, mosaic.WithProgress(os.Stderr))
	switch {
	case errors.Is(err, mosaic.ErrInvalidParams),
		errors.Is(err, mosaic.ErrNoAnimationFrames),
		errors.Is(err, mosaic.ErrNoInputFrames):
		fmt.Fprintln(os.Stderr, err)
		return 1
	case err != nil:
		mosaic.Logger().Error("quadmosaic: batch finished with errors",
			"frames", res.Frames, "failed", res.Failed, "err", err)
		return 1
	}
	return 0
}
