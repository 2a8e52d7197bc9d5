// Package cli provides command-line interface setup and configuration
// for dowel. It builds the cobra command tree, binds flags to viper and
// turns config subcommand flags into store patches.
package cli
