// Package cli is the upload client: a one-shot batch mode for file
// arguments and an interactive REPL otherwise. Both render the upload
// registry through a Panel and report failures through a Notifier.
package cli
