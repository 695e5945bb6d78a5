// serve renders a multibrot image in the background while serving it
// over HTTP, with a websocket feed of per-column render progress.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/coder/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/multibrot/pkg/multibrot"
	"github.com/willbeason/multibrot/pkg/render"
	"image/png"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

type options struct {
	cfg      multibrot.Config
	parallel int
	addr     string
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
	fs.StringVar(&opts.addr, "addr", ":8080", "listen address")
}

func mainCmd() *cobra.Command {
	opts := &options{cfg: multibrot.DefaultConfig()}

	cmd := &cobra.Command{
		Use:  "serve",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, opts)
		},
	}
	bindFlags(cmd.Flags(), opts)

	return cmd
}

type progressEvent struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// hub fans per-column progress out to websocket subscribers. Progress
// is advisory: slow subscribers drop events rather than stall the
// render workers.
type hub struct {
	mu   sync.Mutex
	subs map[chan progressEvent]struct{}
	last progressEvent
}

func newHub() *hub {
	return &hub{subs: make(map[chan progressEvent]struct{})}
}

// Column implements render.Observer.
func (h *hub) Column(done, total int) {
	ev := progressEvent{Done: done, Total: total}

	h.mu.Lock()
	h.last = ev
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

// Row implements render.Observer. Per-row events are far too frequent
// to broadcast.
func (h *hub) Row(int, int, int) {}

// subscribe registers a new event channel, pre-seeded with the latest
// event so late joiners see current progress immediately.
func (h *hub) subscribe() (<-chan progressEvent, func()) {
	ch := make(chan progressEvent, 64)

	h.mu.Lock()
	if h.last.Total > 0 {
		ch <- h.last
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

type server struct {
	hub  *hub
	done chan struct{}
	img  []byte // encoded PNG, set before done closes
}

func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.done:
	case <-r.Context().Done():
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(s.img); err != nil {
		log.Printf("write image: %v", err)
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: tighten in prod
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	events, cancel := s.hub.subscribe()
	defer cancel()

	for {
		select {
		case ev := <-events:
			b, err := json.Marshal(ev)
			if err != nil {
				return
			}
			if err := c.Write(ctx, websocket.MessageText, b); err != nil {
				return
			}
			if ev.Done == ev.Total {
				c.Close(websocket.StatusNormalClosure, "render complete")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<body>
<p id="progress">waiting for render...</p>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
	const ev = JSON.parse(msg.data);
	const pct = (100 * ev.done / ev.total).toFixed(1);
	document.getElementById("progress").textContent = "rendering: " + pct + "%";
	if (ev.done === ev.total) {
		document.getElementById("progress").textContent = "done";
		const img = document.createElement("img");
		img.src = "/image";
		document.body.appendChild(img);
	}
};
</script>
</body>
</html>
`

func runCmd(cmd *cobra.Command, opts *options) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := opts.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s := &server{
		hub:  newHub(),
		done: make(chan struct{}),
	}

	go func() {
		start := time.Now()
		img := render.Render(opts.cfg, s.hub, opts.parallel)
		log.Printf("rendered %dx%d in %s", img.Rect.Dx(), img.Rect.Dy(), time.Since(start))

		buf := bytes.Buffer{}
		if err := png.Encode(&buf, img); err != nil {
			log.Fatalf("encode png: %v", err)
		}
		s.img = buf.Bytes()
		close(s.done)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/image", s.handleImage)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	})

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost%s", opts.addr)
	return srv.ListenAndServe()
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
