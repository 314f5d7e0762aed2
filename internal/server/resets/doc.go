// Package resets holds the pieces behind password recovery: a Redis store
// for one-time reset codes and the mailer that delivers them.
package resets
