// Package render drives the per-pixel multibrot pipeline over a full
// plane grid and assembles the output image.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"

	"github.com/willbeason/multibrot/pkg/multibrot"
)

// Observer receives advisory render progress. Calls may arrive from
// multiple goroutines; implementations must not block, and nothing
// they do affects the rendered output.
type Observer interface {
	// Column is called once per finished grid column with the number
	// of columns completed so far.
	Column(done, total int)

	// Row is called after every point within a column.
	Row(col, done, total int)
}

// NopObserver ignores all progress.
type NopObserver struct{}

func (NopObserver) Column(done, total int) {}

func (NopObserver) Row(col, done, total int) {}

// Render evaluates every grid point of cfg's plane and returns the
// assembled image. The image is (WidthRes+1) x (HeightRes+1) on a
// white background; grid columns that floor between pixel columns
// leave the background visible.
//
// Columns are fanned out to parallel workers (NumCPU when parallel is
// not positive). Each worker owns whole grid columns and the
// grid-to-pixel map is strictly increasing, so pixel writes never
// overlap and need no locking.
func Render(cfg multibrot.Config, obs Observer, parallel int) *image.RGBA {
	if obs == nil {
		obs = NopObserver{}
	}
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	p := cfg.Plane
	img := image.NewRGBA(image.Rect(0, 0, p.WidthRes+1, p.HeightRes+1))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	cols := make(chan int)
	go func() {
		for x := 0; x < p.WidthRes; x++ {
			cols <- x
		}
		close(cols)
	}()

	var (
		mu   sync.Mutex
		done int
	)

	wg := sync.WaitGroup{}
	wg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer wg.Done()
			for x := range cols {
				renderColumn(img, cfg, x, obs)

				mu.Lock()
				done++
				d := done
				mu.Unlock()
				obs.Column(d, p.WidthRes)
			}
		}()
	}
	wg.Wait()

	return img
}

func renderColumn(img *image.RGBA, cfg multibrot.Config, xi int, obs Observer) {
	p := cfg.Plane
	x := p.ReAt(xi)

	for yi := 0; yi < p.HeightRes; yi++ {
		y := p.ImAt(yi)

		c := multibrot.ToComplex(x, y)
		zeta, iteration := multibrot.Run(c, cfg)

		px, py := p.ToPixel(x, y)
		img.SetRGBA(px, py, multibrot.Colorize(zeta, iteration, cfg))

		obs.Row(xi, yi+1, p.HeightRes)
	}
}
