package cli

import (
	"context"
	"os"
)

func (a *App) signup(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	displayName, err := GetSimpleText(a.reader, "Choose a display name", os.Stdout)
	if err != nil {
		return err
	}
	pin, err := GetPIN(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ids.Signup(ctx, username, string(pin), displayName); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Welcome, " + displayName + "!")
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	pin, err := GetPIN(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ids.Login(ctx, username, string(pin)); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Logged in as " + a.ids.Resolve(ctx).DisplayName + ".")
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.ids.Logout(ctx); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Logged out. You are now " + a.ids.Resolve(ctx).DisplayName + ".")
	return nil
}
