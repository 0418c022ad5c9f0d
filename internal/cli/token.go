package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/habitdiary/internal/db"
	"github.com/terraincognita07/habitdiary/internal/security"
	"github.com/terraincognita07/habitdiary/internal/services"
)

// TokenCmd mints a bearer token for local development. With --register the
// subject also gets its local user so the token works on dashboard routes
// right away.
type TokenCmd struct {
	Subject  string        `help:"External identity subject. A random dev- subject is generated when empty."`
	TTL      time.Duration `help:"Token lifetime." default:"24h" name:"ttl"`
	Register bool          `help:"Create the local user for the subject."`
}

func (cmd *TokenCmd) Run(ctx *Context) error {
	if cmd.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	subject := strings.TrimSpace(cmd.Subject)
	if subject == "" {
		generated, err := security.NewDevelopmentSubject()
		if err != nil {
			return fmt.Errorf("generate subject: %w", err)
		}
		subject = generated
	}

	authority, err := security.NewTokenAuthority(ctx.Config.SecretKey, ctx.Config.TokenIssuer)
	if err != nil {
		return err
	}
	token, err := authority.Mint(subject, cmd.TTL)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}

	if cmd.Register {
		if err := registerSubject(ctx, authority, token); err != nil {
			return err
		}
	}

	fmt.Fprintf(ctx.Out, "subject: %s\n", subject)
	fmt.Fprintf(ctx.Out, "Authorization: Bearer %s\n", token)
	return nil
}

func registerSubject(ctx *Context, authority *security.TokenAuthority, token string) error {
	database, err := openDatabase(ctx.Config, ctx.Logger)
	if err != nil {
		return err
	}
	defer db.Close(database)

	identity := services.NewIdentityService(authority, db.NewUserRepository(database))
	user, created, err := identity.Register(context.Background(), token)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	if created {
		ctx.Logger.Info("user registered", "user", user.ID)
	}
	return nil
}
