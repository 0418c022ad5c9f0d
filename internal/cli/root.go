package cli

import "github.com/alecthomas/kong"

// CLI is the kong command tree. serve runs when no command is given.
type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server." default:"withargs"`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations."`
	Token   TokenCmd   `cmd:"" help:"Mint a development bearer token."`
}
