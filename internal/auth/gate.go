package auth

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ValidationMessage is what the login form shows for any missing field.
const ValidationMessage = "Please fill in all fields"

var (
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmptyName     = errors.New("name is required")
)

// IsValidationError reports whether err came from LoginForm.Validate.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyEmail) ||
		errors.Is(err, ErrEmptyPassword) ||
		errors.Is(err, ErrEmptyName)
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Register bool   `json:"register,omitempty"`
}

// Validate only checks presence. Credentials are never verified.
func (f LoginForm) Validate() error {
	if f.Email == "" {
		return ErrEmptyEmail
	}
	if f.Password == "" {
		return ErrEmptyPassword
	}
	if f.Register && f.Name == "" {
		return ErrEmptyName
	}
	return nil
}

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Gate is the two-state auth flag of a dashboard view. The only way in is
// Submit, the only way out is Logout.
type Gate struct {
	mutex     sync.Mutex
	state     State
	observers map[State][]func()
}

func NewGate() *Gate {
	return &Gate{
		state:     Unauthenticated,
		observers: map[State][]func(){},
	}
}

func (g *Gate) State() State {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.state
}

func (g *Gate) IsAuthenticated() bool {
	return g.State() == Authenticated
}

// OnEnter registers fn to run every time the gate transitions into state.
// Observers run in registration order, outside the gate lock.
func (g *Gate) OnEnter(state State, fn func()) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.observers[state] = append(g.observers[state], fn)
}

// Submit moves the gate to Authenticated if the form is valid.
// An invalid form leaves the state untouched.
func (g *Gate) Submit(form LoginForm) error {
	if err := form.Validate(); err != nil {
		log.Debugf("login form rejected: %s", err)
		return err
	}
	g.transition(Authenticated)
	return nil
}

func (g *Gate) Logout() {
	g.transition(Unauthenticated)
}

func (g *Gate) transition(to State) {
	g.mutex.Lock()
	if g.state == to {
		g.mutex.Unlock()
		return
	}
	from := g.state
	g.state = to
	observers := append([]func(){}, g.observers[to]...)
	g.mutex.Unlock()

	log.Debugf("auth gate: %s -> %s", from, to)
	for _, fn := range observers {
		fn()
	}
}
