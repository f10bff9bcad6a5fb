package dashboard

import (
	"sync"

	"github.com/2beens/vitaly/internal/auth"
	"github.com/2beens/vitaly/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Registry maps session tokens to their mounted views.
type Registry struct {
	mutex   sync.Mutex
	views   map[string]*View
	newView func() *View
	metrics *metrics.Manager
}

func NewRegistry(newView func() *View, metricsManager *metrics.Manager) *Registry {
	return &Registry{
		views:   map[string]*View{},
		newView: newView,
		metrics: metricsManager,
	}
}

// Open mounts a view for the token and submits the login form to its gate.
// An existing view for the token is reused.
func (r *Registry) Open(token string, form auth.LoginForm) (*View, error) {
	r.mutex.Lock()
	v, ok := r.views[token]
	if !ok {
		v = r.newView()
		r.views[token] = v
		r.setGauge()
	}
	r.mutex.Unlock()

	if !ok {
		v.Mount()
	}

	if err := v.Login(form); err != nil {
		if !ok {
			r.Close(token)
		}
		return nil, err
	}

	log.Debugf("view [%s] opened", v.ID())
	return v, nil
}

func (r *Registry) Get(token string) (*View, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v, ok := r.views[token]
	return v, ok
}

// Close logs the view out and tears it down. It reports whether a view existed.
func (r *Registry) Close(token string) bool {
	r.mutex.Lock()
	v, ok := r.views[token]
	delete(r.views, token)
	r.setGauge()
	r.mutex.Unlock()

	if !ok {
		return false
	}

	v.Logout()
	v.Teardown()
	return true
}

func (r *Registry) CloseAll() {
	r.mutex.Lock()
	views := r.views
	r.views = map[string]*View{}
	r.setGauge()
	r.mutex.Unlock()

	for _, v := range views {
		v.Logout()
		v.Teardown()
	}
	log.Debugf("closed %d dashboard views", len(views))
}

func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.views)
}

// setGauge must be called with the mutex held.
func (r *Registry) setGauge() {
	if r.metrics == nil {
		return
	}
	r.metrics.GaugeActiveViews.Set(float64(len(r.views)))
}
