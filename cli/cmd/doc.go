// Package cmd implements the tpp subcommands.
//
// Each command is a kong command struct with a Run(context.Context) error
// method. The kong context is stored in the context by the cli package
// (see [WithContext]) so that commands can read kong variables such as the
// configuration and cache paths.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
