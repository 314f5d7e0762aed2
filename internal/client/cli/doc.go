// Package cli implements the interactive terminal front end of nutrigate.
//
// The App owns one active screen at a time. Every time a screen gains
// focus (start-up, a navigation command, or the end of a state-changing
// action such as sign-in) the App asks the gate.Navigator for a decision
// and follows redirects until a screen stays, at most three hops per focus.
// Screens render from the returned gate.Action and never inspect the
// session themselves.
//
// Screens and their commands:
//
//	login            submit, signup, forgot
//	signup           submit, login
//	forgot-password  submit, confirm, login
//	onboarding       submit, logout
//	home             capture, upload, profile
//	profile          home, logout
//
// Everywhere: help, refresh, exit | quit.
//
// A background watcher pings the server and shows the connectivity mode in
// the prompt.
package cli
