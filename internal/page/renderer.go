package page

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/clock"
)

// Renderer keeps a processed snapshot of every HTML page of the site and
// refreshes it on a fixed interval.
type Renderer struct {
	root      string
	processor *Processor
	clock     clock.Clock
	loc       *time.Location

	sources  map[string][]byte
	snapshot atomic.Pointer[map[string][]byte]

	interval time.Duration
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRenderer creates a Renderer over the HTML files below root.
// Pages are evaluated at clk.Now() converted to loc.
func NewRenderer(root string, processor *Processor, clk clock.Clock, loc *time.Location, interval time.Duration) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Renderer{
		root:      root,
		processor: processor,
		clock:     clk,
		loc:       loc,
		sources:   make(map[string][]byte),
		interval:  interval,
	}
}

// Load reads every *.html file below root. It must be called before Refresh or Start.
func (r *Renderer) Load() error {
	sources := make(map[string][]byte)

	err := filepath.WalkDir(r.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read page %s: %w", rel, err)
		}
		sources[filepath.ToSlash(rel)] = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("load pages from %s: %w", r.root, err)
	}

	r.sources = sources
	log.Info().Str("root", r.root).Int("pages", len(sources)).Msg("pages loaded")
	return nil
}

// Refresh processes every page once. A page that fails to process keeps its
// previous output, or its raw source on the first pass.
func (r *Renderer) Refresh() {
	now := r.clock.Now().In(r.loc)

	var prev map[string][]byte
	if p := r.snapshot.Load(); p != nil {
		prev = *p
	}

	next := make(map[string][]byte, len(r.sources))
	for name, src := range r.sources {
		out, stats, err := r.processor.Process(src, now)
		if err != nil {
			log.Error().Err(err).Str("page", name).Msg("failed to process page")
			if old, ok := prev[name]; ok {
				next[name] = old
			} else {
				next[name] = src
			}
			continue
		}
		next[name] = out
		log.Debug().
			Str("page", name).
			Int("temporal_elements", len(stats.Results)).
			Int("messaging_links", stats.Links).
			Msg("page rendered")
	}

	r.snapshot.Store(&next)
}

// Page returns the processed page for a request path relative to the site prefix.
// "" and directory paths resolve to their index.html.
func (r *Renderer) Page(reqPath string) ([]byte, bool) {
	p := r.snapshot.Load()
	if p == nil {
		return nil, false
	}
	pages := *p

	name := strings.TrimPrefix(path.Clean("/"+reqPath), "/")
	candidates := []string{name}
	switch {
	case name == "":
		candidates = []string{"index.html"}
	case path.Ext(name) == "":
		candidates = append(candidates, name+".html", name+"/index.html")
	}

	for _, c := range candidates {
		if b, ok := pages[c]; ok {
			return b, true
		}
	}
	return nil, false
}

// Len returns the number of pages in the current snapshot.
func (r *Renderer) Len() int {
	p := r.snapshot.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}

// Start runs an initial refresh and then refreshes on every interval tick.
func (r *Renderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})

	r.Refresh()

	r.wg.Add(1)
	go r.loop()
	log.Info().Dur("interval", r.interval).Msg("page renderer started")
}

// Stop halts the refresh loop and waits for it to exit.
func (r *Renderer) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	log.Info().Msg("page renderer stopped")
}

func (r *Renderer) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Refresh()
		case <-r.stopCh:
			return
		}
	}
}
