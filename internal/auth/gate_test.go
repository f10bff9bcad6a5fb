package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginForm_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		form    LoginForm
		wantErr error
	}{
		{name: "valid", form: LoginForm{Email: "a@b.com", Password: "x"}},
		{name: "empty email", form: LoginForm{Password: "x"}, wantErr: ErrEmptyEmail},
		{name: "empty password", form: LoginForm{Email: "a@b.com"}, wantErr: ErrEmptyPassword},
		{name: "register without name", form: LoginForm{Email: "a@b.com", Password: "x", Register: true}, wantErr: ErrEmptyName},
		{name: "register with name", form: LoginForm{Email: "a@b.com", Password: "x", Name: "Ana", Register: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestGate_Transitions(t *testing.T) {
	gate := NewGate()
	assert.Equal(t, Unauthenticated, gate.State())

	var entered, left int
	gate.OnEnter(Authenticated, func() { entered++ })
	gate.OnEnter(Unauthenticated, func() { left++ })

	require.NoError(t, gate.Submit(LoginForm{Email: "a@b.com", Password: "x"}))
	assert.True(t, gate.IsAuthenticated())
	assert.Equal(t, 1, entered)

	// already authenticated, no new transition
	require.NoError(t, gate.Submit(LoginForm{Email: "a@b.com", Password: "x"}))
	assert.Equal(t, 1, entered)

	gate.Logout()
	assert.Equal(t, Unauthenticated, gate.State())
	assert.Equal(t, 1, left)

	gate.Logout()
	assert.Equal(t, 1, left)
}

func TestGate_EmptyPasswordDoesNotTransition(t *testing.T) {
	gate := NewGate()
	called := false
	gate.OnEnter(Authenticated, func() { called = true })

	err := gate.Submit(LoginForm{Email: "a@b.com", Password: ""})
	require.ErrorIs(t, err, ErrEmptyPassword)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Please fill in all fields", ValidationMessage)
	assert.Equal(t, Unauthenticated, gate.State())
	assert.False(t, called)
}

func TestGate_ObserverCanReadState(t *testing.T) {
	gate := NewGate()
	var seen State = -1
	gate.OnEnter(Authenticated, func() { seen = gate.State() })
	require.NoError(t, gate.Submit(LoginForm{Email: "a@b.com", Password: "x"}))
	assert.Equal(t, Authenticated, seen)
	assert.Equal(t, "authenticated", seen.String())
}
