package router

import "time"

// Observer receives resolution events. Implementations must be safe for
// concurrent use.
type Observer interface {
	// ObserveResolve is called once per Resolve. route is "" when no route
	// matched.
	ObserveResolve(route string, loaded bool, d time.Duration, err error)

	// ObserveLoad is called once per loader invocation.
	ObserveLoad(route, chunk string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveResolve(string, bool, time.Duration, error) {}
func (nopObserver) ObserveLoad(string, string, time.Duration, error)  {}
