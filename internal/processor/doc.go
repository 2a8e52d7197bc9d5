// Package processor contains the logic behind the dowel subcommands. It
// wires the config store, the transport, the translation service and the
// AI client together and prints results for the command line.
package processor
