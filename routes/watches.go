package routes

import (
	"sync"

	"golang.org/x/time/rate"
)

// watchTable hands out a rate limiter per (tab, expression) pair so a client
// polling a watch file can't flood the browser with evaluate calls. Each
// read still re-evaluates the expression; the limiter delays a read until
// its turn, and fails it only if that wait would outlast the request's
// deadline.
type watchTable struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newWatchTable() *watchTable {
	return &watchTable{limiters: make(map[string]*rate.Limiter)}
}

// limiter returns the shared limiter for this tab/expression pair, allowing
// up to 5 re-evaluations per second with a burst of 1.
func (w *watchTable) limiter(key string) *rate.Limiter {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.limiters[key]
	if !ok {
		l = rate.NewLimiter(5, 1)
		w.limiters[key] = l
	}
	return l
}
