// Package gate decides which screen the user may see.
//
// Two resolvers turn collaborator answers into tagged outcomes:
// SessionResolver (authenticated, unauthenticated, transient) and
// ProfileResolver (complete, incomplete, not found, transient). Gate.Decide
// combines them into an Action for a screen: stay, or redirect to the home
// screen of the resolved state. Transient failures never redirect.
//
// Navigator runs Decide on every activation and fences concurrent runs: a
// newer activation cancels the older one, and a result that completes after
// a newer activation was requested is discarded with ErrStale.
package gate
