package cli

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/habitdiary/internal/db"
)

// MigrateCmd applies the embedded migrations and reports what is recorded.
type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(ctx *Context) error {
	database, err := openDatabase(ctx.Config, ctx.Logger)
	if err != nil {
		return err
	}
	defer db.Close(database)

	versions, err := db.AppliedMigrations(database)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Database is up to date (%d migrations: %s)\n", len(versions), strings.Join(versions, ", "))
	return nil
}
