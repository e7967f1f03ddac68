package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Login exchanges credentials for a session token and persists it.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	token, err := r.library.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.session.Swap(token)
	if err := r.saveToken(token); err != nil {
		return err
	}

	r.logger.Info("session started", "email", email)
	r.writePlainln("✓ Logged in as %s", email)
	return nil
}

// Signup registers a new account. It does not start a session; follow up
// with 'auth login'.
func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	message, err := r.library.Signup(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if message == "" {
		message = "account created"
	}
	r.writePlainln("✓ %s", message)
	r.writePlainln("Run 'kaset auth login -e %s -p ...' to start a session", email)
	return nil
}

// Logout clears the in-memory session and removes the saved token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	r.session.Swap("")
	if err := r.clearToken(); err != nil {
		return err
	}
	r.writePlainln("✓ Logged out")
	return nil
}

// AuthStatus reports whether a session token is present.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session.Authenticated() {
		r.writePlainln("authenticated (token at %s)", r.config.Server.TokenPath)
	} else {
		r.writePlainln("not authenticated, run 'kaset auth login'")
	}
	return nil
}
