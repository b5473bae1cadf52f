package spider

import (
	"errors"
	"fmt"
)

// The expected, recoverable rejections. Callers match them with errors.Is
// and translate them into user-facing responses; none are fatal to the
// process.
var (
	// ErrInsufficientResources means a currency or feeder debit would go
	// below zero. Wrapped with the resource name and amounts.
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrCreatureNotAlive rejects actions on a deceased creature.
	ErrCreatureNotAlive = errors.New("creature is deceased")

	// ErrCreatureListed rejects actions on a creature held on the market.
	ErrCreatureListed = errors.New("creature is listed on the market")

	// ErrCooldownActive rejects a webtrap collection before the 24h
	// cooldown has elapsed.
	ErrCooldownActive = errors.New("cooldown active")

	// ErrWebtrapLocked rejects webtrap operations before the unlock.
	ErrWebtrapLocked = errors.New("webtrap not unlocked")

	// ErrNotFound means a creature or player lookup missed.
	ErrNotFound = errors.New("not found")
)

// insufficient wraps ErrInsufficientResources with the concrete shortfall.
func insufficient(resource string, have, need float64) error {
	return fmt.Errorf("%w: need %g %s, have %g", ErrInsufficientResources, need, resource, have)
}

// IncompatibilityError rejects a breeding attempt and carries every
// violated condition so the caller can render them all at once.
type IncompatibilityError struct {
	Reasons []string
}

func (e *IncompatibilityError) Error() string {
	return fmt.Sprintf("breeding pair incompatible: %v", e.Reasons)
}

// InvariantError signals corrupted state, such as a level above the rarity
// cap. It is a logic-error signal for upstream data, not a user error, and
// is surfaced as a hard failure.
type InvariantError struct {
	Creature CreatureID
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation on creature %s: %s", e.Creature, e.Detail)
}
