package application

import "context"

// RepeatPolicy decides what SetStatus does when the side effect for the
// target status has already been applied to the application.
type RepeatPolicy string

const (
	// RepeatReapply pushes the supply delta on every call, including
	// repeats of the current status.
	RepeatReapply RepeatPolicy = "reapply"

	// RepeatSkip pushes the delta only the first time an application
	// enters a given status.
	RepeatSkip RepeatPolicy = "skip"
)

// PolicySource yields the repeat policy in force for a request.
type PolicySource interface {
	RepeatPolicy(ctx context.Context) RepeatPolicy
}

// StaticPolicy always returns the same policy.
type StaticPolicy RepeatPolicy

// RepeatPolicy implements PolicySource.
func (p StaticPolicy) RepeatPolicy(context.Context) RepeatPolicy { return RepeatPolicy(p) }

// SkipFlag is satisfied by the feature flag service.
type SkipFlag interface {
	SkipRepeatedStatusEffects(ctx context.Context) bool
}

// FlagPolicy reads the policy from a runtime flag.
type FlagPolicy struct {
	Flags SkipFlag
}

// RepeatPolicy implements PolicySource.
func (p FlagPolicy) RepeatPolicy(ctx context.Context) RepeatPolicy {
	if p.Flags != nil && p.Flags.SkipRepeatedStatusEffects(ctx) {
		return RepeatSkip
	}
	return RepeatReapply
}
