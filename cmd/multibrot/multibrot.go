package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/multibrot/pkg/multibrot"
	"github.com/willbeason/multibrot/pkg/render"
	"image/png"
	"log"
	"os"
	"time"
)

type options struct {
	cfg      multibrot.Config
	parallel int
	out      string
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.Uint32VarP(&opts.cfg.Power, "power", "d", opts.cfg.Power, "multibrot exponent")
	fs.Uint32VarP(&opts.cfg.MaxIter, "iterations", "n", opts.cfg.MaxIter, "iteration bound")
	fs.Float64Var(&opts.cfg.Plane.MinRe, "min-re", opts.cfg.Plane.MinRe, "left edge of the plane")
	fs.Float64Var(&opts.cfg.Plane.MaxRe, "max-re", opts.cfg.Plane.MaxRe, "right edge of the plane")
	fs.Float64Var(&opts.cfg.Plane.MinIm, "min-im", opts.cfg.Plane.MinIm, "bottom edge of the plane")
	fs.Float64Var(&opts.cfg.Plane.MaxIm, "max-im", opts.cfg.Plane.MaxIm, "top edge of the plane")
	fs.IntVar(&opts.cfg.Plane.WidthRes, "width", opts.cfg.Plane.WidthRes, "horizontal resolution")
	fs.IntVar(&opts.cfg.Plane.HeightRes, "height", opts.cfg.Plane.HeightRes, "vertical resolution")
	fs.Float64Var(&opts.cfg.DivergenceLimit, "limit", opts.cfg.DivergenceLimit, "divergence threshold")
	fs.IntVar(&opts.parallel, "parallel", 0, "render workers (0 uses all CPUs)")
	fs.StringVarP(&opts.out, "out", "o", "", `output file (default "multibrot_{d}_{n}.png")`)
}

func mainCmd() *cobra.Command {
	opts := &options{cfg: multibrot.DefaultConfig()}

	cmd := &cobra.Command{
		Use:  "multibrot",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, opts)
		},
	}
	bindFlags(cmd.Flags(), opts)

	return cmd
}

// logObserver logs coarse per-column progress. Per-row progress is too
// chatty for a terminal and is ignored.
type logObserver struct {
	every int
}

func (o logObserver) Column(done, total int) {
	if done%o.every == 0 || done == total {
		log.Printf("columns: %d/%d", done, total)
	}
}

func (o logObserver) Row(int, int, int) {}

func runCmd(cmd *cobra.Command, opts *options) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := opts.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("multibrot_%d_%d.png", opts.cfg.Power, opts.cfg.MaxIter)
	}

	every := opts.cfg.Plane.WidthRes / 10
	if every < 1 {
		every = 1
	}

	start := time.Now()
	img := render.Render(opts.cfg, logObserver{every: every}, opts.parallel)
	log.Printf("rendered %dx%d in %s", img.Rect.Dx(), img.Rect.Dy(), time.Since(start))

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}

	log.Printf("saved %q", out)
	return nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
