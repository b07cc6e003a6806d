package main

import (
	"context"

	"santri_portal/cmd/ssg/internal/commands"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Hijri     commands.HijriCmd     `cmd:"" help:"Convert a Gregorian date to Hijri"`
		Normalize commands.NormalizeCmd `cmd:"" help:"Normalize an Arabic Hijri label"`
		Login     commands.LoginCmd     `cmd:"" help:"Log in through the backend"`
		Verify    commands.VerifyCmd    `cmd:"" help:"Confirm the OTP sent after login"`
		Status    commands.StatusCmd    `cmd:"" help:"Show the stored session"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Clear the stored session"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("ssg"),
		kong.Description("Santri Siap Guna portal client"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
