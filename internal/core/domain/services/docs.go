// Package services contains stateless domain services that coordinate
// multiple aggregates: the AssignmentMatcher pairing containers with drivers
// under time-window constraints, and the DurationEstimator behind the
// adaptive duration prediction model.
package services
