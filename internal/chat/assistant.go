package chat

import (
	"context"
	"strings"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=chat

type Assistant interface {
	Reply(ctx context.Context, history []Message, text string) (string, error)
}

var _ Assistant = (*ScriptedAssistant)(nil)

type scriptedAnswer struct {
	keywords []string
	answer   string
}

// ScriptedAssistant answers from a fixed keyword table. It has no memory and
// never fails.
type ScriptedAssistant struct {
	answers  []scriptedAnswer
	fallback string
}

func NewScriptedAssistant() *ScriptedAssistant {
	return &ScriptedAssistant{
		answers: []scriptedAnswer{
			{
				keywords: []string{"fatigue", "tired", "recover"},
				answer:   "Your fatigue is building up. Take a 2-3 minute rest and keep your next set lighter.",
			},
			{
				keywords: []string{"zone", "intensity", "effort"},
				answer:   "Aim for the Power zone (60-80% activation) for strength work, and save Max Effort for your last sets.",
			},
			{
				keywords: []string{"force", "velocity", "power"},
				answer:   "Your force-velocity profile looks solid. Try faster concentric reps to push power output up.",
			},
			{
				keywords: []string{"gait", "stride", "walk", "run"},
				answer:   "Your stride symmetry improved recently. Keep cadence steady and land under your hips.",
			},
			{
				keywords: []string{"warm", "start"},
				answer:   "Start with 5-10 minutes of light movement until you leave the Warm-up zone.",
			},
		},
		fallback: "Great question! Keep an eye on your activation and fatigue cards, I'll flag anything unusual.",
	}
}

func (a *ScriptedAssistant) Reply(_ context.Context, _ []Message, text string) (string, error) {
	lower := strings.ToLower(text)
	for _, sa := range a.answers {
		for _, kw := range sa.keywords {
			if strings.Contains(lower, kw) {
				return sa.answer, nil
			}
		}
	}
	return a.fallback, nil
}
