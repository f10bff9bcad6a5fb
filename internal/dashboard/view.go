// Package dashboard composes a live-metrics view per logged in session: the
// auth gate, the polled session snapshot, the synthetic signal generators and
// the coach chat, and serves them over HTTP.
package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/vitaly/internal/auth"
	"github.com/2beens/vitaly/internal/chat"
	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/signals"
	"github.com/2beens/vitaly/internal/telemetry/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabAnalytics Tab = "analytics"
	TabCoach     Tab = "coach"
	TabProfile   Tab = "profile"
)

var Tabs = []Tab{TabDashboard, TabAnalytics, TabCoach, TabProfile}

var ErrUnknownTab = errors.New("unknown tab")

func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTab, s)
}

type ViewDeps struct {
	Scheduler    clock.Scheduler
	Source       session.Source
	PollInterval time.Duration
	// SignalSource feeds the generators; a time seeded source is used when nil.
	SignalSource signals.Source
	Assistant    chat.Assistant
	Metrics      *metrics.Manager
}

// View is one mounted dashboard. Generators run from Mount to Teardown;
// the poller runs only while the gate is Authenticated.
type View struct {
	id        string
	scheduler clock.Scheduler
	gate      *auth.Gate
	store     *session.Store
	poller    *session.Poller
	bank      *signals.Bank
	chat      *chat.Conversation

	mutex    sync.Mutex
	tab      Tab
	darkMode bool
}

func NewView(deps ViewDeps) *View {
	signalSource := deps.SignalSource
	if signalSource == nil {
		signalSource = signals.NewTimeSeededSource()
	}
	assistant := deps.Assistant
	if assistant == nil {
		assistant = chat.NewScriptedAssistant()
	}

	var onTick func(string)
	if deps.Metrics != nil {
		onTick = func(generator string) {
			deps.Metrics.CounterGeneratorTicks.WithLabelValues(generator).Inc()
		}
	}

	store := session.NewStore()
	v := &View{
		id:        uuid.NewString(),
		scheduler: deps.Scheduler,
		gate:      auth.NewGate(),
		store:     store,
		poller:    session.NewPoller(deps.Source, store, deps.PollInterval, deps.Metrics),
		bank:      signals.NewBank(signalSource, onTick),
		chat:      chat.NewConversation(assistant, deps.Scheduler.Now),
		tab:       TabDashboard,
	}

	v.gate.OnEnter(auth.Authenticated, func() {
		v.bank.Start(v.scheduler)
		v.poller.Start(v.scheduler)
	})
	v.gate.OnEnter(auth.Unauthenticated, func() {
		v.poller.Stop()
	})

	return v
}

func (v *View) ID() string {
	return v.id
}

// Mount starts the generators. The poller waits for the gate.
func (v *View) Mount() {
	v.bank.Start(v.scheduler)
	log.Debugf("view [%s] mounted", v.id)
}

func (v *View) Login(form auth.LoginForm) error {
	return v.gate.Submit(form)
}

func (v *View) Logout() {
	v.gate.Logout()
}

// Teardown stops every timer the view owns.
func (v *View) Teardown() {
	v.poller.Stop()
	v.bank.Stop()
	log.Debugf("view [%s] torn down", v.id)
}

func (v *View) Gate() *auth.Gate {
	return v.gate
}

func (v *View) Snapshot() *session.Snapshot {
	return v.store.Latest()
}

func (v *View) Polling() bool {
	return v.poller.Running()
}

func (v *View) Generating() bool {
	return v.bank.Running()
}

func (v *View) Chat() *chat.Conversation {
	return v.chat
}

func (v *View) SelectTab(tab Tab) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.tab = tab
}

func (v *View) Tab() Tab {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.tab
}

func (v *View) SetDarkMode(enabled bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.darkMode = enabled
}

func (v *View) DarkMode() bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.darkMode
}
