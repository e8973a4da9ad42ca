package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

type Opts struct {
	Name string
	Help string
}

type collector interface {
	name() string
	writePrometheus(*strings.Builder)
}

type Registry struct {
	mu         sync.RWMutex
	collectors map[string]collector
}

func NewRegistry() *Registry {
	return &Registry{collectors: map[string]collector{}}
}

func (r *Registry) MustRegister(items ...collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		name := item.name()
		if _, exists := r.collectors[name]; exists {
			panic("metrics collector already registered: " + name)
		}
		r.collectors[name] = item
	}
}

func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		var sb strings.Builder

		r.mu.RLock()
		names := make([]string, 0, len(r.collectors))
		for name := range r.collectors {
			names = append(names, name)
		}
		sort.Strings(names)
		collectors := make([]collector, 0, len(names))
		for _, name := range names {
			collectors = append(collectors, r.collectors[name])
		}
		r.mu.RUnlock()

		for _, item := range collectors {
			item.writePrometheus(&sb)
		}
		_, _ = w.Write([]byte(sb.String()))
	})
}

// Counter is a monotonically increasing metric.
type Counter struct {
	opts  Opts
	value atomic.Uint64
}

func NewCounter(opts Opts) *Counter {
	return &Counter{opts: opts}
}

func (c *Counter) Inc() {
	c.value.Add(1)
}

func (c *Counter) Value() uint64 {
	return c.value.Load()
}

func (c *Counter) name() string {
	return c.opts.Name
}

func (c *Counter) writePrometheus(sb *strings.Builder) {
	if c.opts.Help != "" {
		fmt.Fprintf(sb, "# HELP %s %s\n", c.opts.Name, c.opts.Help)
	}
	fmt.Fprintf(sb, "# TYPE %s counter\n", c.opts.Name)
	fmt.Fprintf(sb, "%s %d\n", c.opts.Name, c.value.Load())
}
