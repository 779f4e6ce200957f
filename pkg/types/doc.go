// Package types defines the Event entity, the Collection wire codec,
// the Store interface, and the standard error and result types shared
// by the slateplan storage and service layers.
package types
