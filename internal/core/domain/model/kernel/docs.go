// Package kernel contains shared value objects used across all domain
// aggregates: identifiers (UUID) and time intervals (TimeWindow).
//
// Kernel types are immutable, validate themselves, and carry no dependencies
// on other domain packages, so any aggregate may embed them freely.
package kernel
