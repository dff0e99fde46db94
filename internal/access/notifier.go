package access

import (
	"sync"
	"time"
)

// Notifier guarantees that a denial notification fires once per denial event.
//
// It remembers the last denial per subject and route and reports a
// notification on a transition into a denial, or from one denial reason into
// another. An allowed decision re-arms the route. Repeated identical denials
// that arrive within the quiet window of each other, such as a view polling
// or re-rendering the same route, belong to the same event and stay silent.
// Once a route has been quiet for longer than the window, the next denial is
// a new event and notifies again.
type Notifier struct {
	mu       sync.Mutex
	subjects map[string]map[string]denial
	limit    int
	window   time.Duration
	now      func() time.Time
}

type denial struct {
	reason Reason
	seenAt time.Time
}

const (
	// defaultNotifierLimit bounds memory held by anonymous subjects
	defaultNotifierLimit = 10000
	// DefaultNotifierWindow is the quiet period after which a repeated denial notifies again
	DefaultNotifierWindow = 30 * time.Second
)

// NewNotifier creates a notifier tracking at most limit subjects.
// A non-positive limit or window uses the default.
func NewNotifier(limit int, window time.Duration) *Notifier {
	if limit <= 0 {
		limit = defaultNotifierLimit
	}
	if window <= 0 {
		window = DefaultNotifierWindow
	}
	return &Notifier{
		subjects: make(map[string]map[string]denial),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Observe records decision d of subject on route and reports whether a notification should fire
func (n *Notifier) Observe(subject, route string, d Decision) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	routes, seen := n.subjects[subject]
	if d.Allowed {
		if seen {
			delete(routes, route)
			if len(routes) == 0 {
				delete(n.subjects, subject)
			}
		}
		return false
	}

	now := n.now()
	if prev, ok := routes[route]; ok && prev.reason == d.Reason && now.Sub(prev.seenAt) <= n.window {
		// Same event: slide the window so a steady poll never re-fires
		routes[route] = denial{reason: d.Reason, seenAt: now}
		return false
	}

	if !seen {
		if len(n.subjects) >= n.limit {
			// Forget everything rather than grow without bound.
			// The worst case is one repeated notification per subject.
			n.subjects = make(map[string]map[string]denial)
		}
		routes = make(map[string]denial)
		n.subjects[subject] = routes
	}
	routes[route] = denial{reason: d.Reason, seenAt: now}
	return true
}

// Forget drops all state of subject, e.g. after login or logout
func (n *Notifier) Forget(subject string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subjects, subject)
}
