// Package timerecord holds the training data and model output of the
// adaptive duration prediction: immutable Records of observed travel and
// operation times, and the LearnedEstimate produced per segment key.
package timerecord
