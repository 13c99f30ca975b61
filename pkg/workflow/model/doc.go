// Package model provides the data structures shared between the workflow
// engine and its observers. It defines the stage descriptors and the option
// interface implemented by the measure and drawer packages.
package model
