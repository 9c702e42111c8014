package container

import (
	"errors"
	"fmt"
	"strings"
)

// Status represents the lifecycle stage of a container. The string values are
// the contract surface consumed by the import pipeline and the API layer and
// are case-sensitive.
//
// Main progression:
//
//	not_arrived → discharged → released → scheduled → assigned → en_route
//	  → arrived_at_destination → unloaded → available_for_return
//	  → en_route_return → finalized
//
// in_sequence and pending_gate are lateral administrative stages that feed
// into released. finalized is terminal.
type Status string

const (
	// NotArrived is the initial stage: the vessel has not discharged the
	// container yet.
	NotArrived Status = "not_arrived"

	// InSequence marks a container queued in a port unloading sequence.
	InSequence Status = "in_sequence"

	// PendingGate marks a container waiting for gate clearance before release.
	PendingGate Status = "pending_gate"

	// Discharged marks a container physically unloaded from the vessel.
	Discharged Status = "discharged"

	// Released marks customs release; the container becomes schedulable.
	Released Status = "released"

	// Scheduled marks a container with a confirmed pickup date/time.
	Scheduled Status = "scheduled"

	// Assigned marks a container matched to a driver.
	Assigned Status = "assigned"

	// EnRoute marks the delivery leg in progress.
	EnRoute Status = "en_route"

	// ArrivedAtDestination marks arrival at the distribution center.
	ArrivedAtDestination Status = "arrived_at_destination"

	// Unloaded marks the end of unloading at the destination.
	Unloaded Status = "unloaded"

	// AvailableForReturn marks an empty container ready to go back to the
	// terminal.
	AvailableForReturn Status = "available_for_return"

	// EnRouteReturn marks the return leg in progress.
	EnRouteReturn Status = "en_route_return"

	// Finalized is the terminal stage: the empty container was returned.
	Finalized Status = "finalized"
)

// ErrUnknownRawStatus is returned by NormalizeStatus for raw values that match
// neither the canonical vocabulary nor the alias table. Unmapped values are
// flagged, never guessed.
var ErrUnknownRawStatus = errors.New("unknown raw status")

// transitionTable is the immutable set of legal edges, keyed by current
// status. Every status has an entry; terminal statuses map to an empty set.
// A transition to the current status itself is always a legal no-op and is
// handled before this table is consulted.
var transitionTable = map[Status][]Status{
	NotArrived:           {Discharged, InSequence},
	InSequence:           {Released, PendingGate, Scheduled, Assigned},
	PendingGate:          {Released},
	Discharged:           {Released, InSequence, PendingGate},
	Released:             {Scheduled},
	Scheduled:            {Assigned},
	Assigned:             {EnRoute, Scheduled},
	EnRoute:              {ArrivedAtDestination},
	ArrivedAtDestination: {Unloaded},
	Unloaded:             {AvailableForReturn},
	AvailableForReturn:   {EnRouteReturn},
	EnRouteReturn:        {Finalized},
	Finalized:            {},
}

// statusAliases maps raw import vocabulary onto canonical statuses. The
// import pipeline mixes a second, terminal-operator vocabulary with the
// canonical one; this table is the single, explicit normalization point.
var statusAliases = map[string]Status{
	// Administrative aliases feeding into released.
	"gate_out":         Released,
	"customs_released": Released,
	// Legacy stowage-plan spellings seen in terminal manifests.
	"por_arribar":  NotArrived,
	"en_secuencia": InSequence,
	"descargado":   Discharged,
	"liberado":     Released,
	"programado":   Scheduled,
	"asignado":     Assigned,
	"en_ruta":      EnRoute,
}

// InvalidTransitionError is returned when a requested edge is not in the
// transition table. It identifies the attempted edge and the legal
// alternatives so callers can surface an actionable message.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

// ErrInvalidTransition is the sentinel all InvalidTransitionError values
// unwrap to, for classification with errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid status transition: %s -> %s (allowed: %s)",
		e.From, e.To, strings.Join(allowed, ", "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AllStatuses returns every canonical status, in lifecycle order. Used by
// exhaustive table tests and by the persistence layer for enum checks.
func AllStatuses() []Status {
	return []Status{
		NotArrived, InSequence, PendingGate, Discharged, Released, Scheduled,
		Assigned, EnRoute, ArrivedAtDestination, Unloaded, AvailableForReturn,
		EnRouteReturn, Finalized,
	}
}

// Validate checks that the status is one of the canonical values.
func (s Status) Validate() error {
	if _, ok := transitionTable[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRawStatus, string(s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitionTable[s]) == 0 && s.Validate() == nil
}

// AllowedTransitions returns a copy of the legal target set for the status.
// The empty slice for terminal statuses is intentional.
func (s Status) AllowedTransitions() []Status {
	targets := transitionTable[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether the edge s -> target is legal. The
// idempotent no-op (target == s) is always legal.
func (s Status) CanTransitionTo(target Status) bool {
	if target == s {
		return true
	}
	for _, allowed := range transitionTable[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// checkTransition returns nil for a legal edge and an *InvalidTransitionError
// otherwise.
func (s Status) checkTransition(target Status) error {
	if s.CanTransitionTo(target) {
		return nil
	}
	return &InvalidTransitionError{From: s, To: target, Allowed: s.AllowedTransitions()}
}

// NormalizeStatus maps a raw status value from the import pipeline onto the
// canonical vocabulary. Matching is case-insensitive and tolerant of
// surrounding whitespace and space/dash separators; anything not covered by
// the canonical set or the alias table yields ErrUnknownRawStatus.
func NormalizeStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	if _, ok := transitionTable[Status(normalized)]; ok {
		return Status(normalized), nil
	}
	if canonical, ok := statusAliases[normalized]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRawStatus, raw)
}
