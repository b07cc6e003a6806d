package commands

import (
	"context"
	"fmt"
	"time"

	"santri_portal/internal/session"
	"santri_portal/internal/utils"
)

type LoginCmd struct {
	Phone    string `help:"Phone number (nomor HP)" required:""`
	Password string `help:"Password" required:"" env:"SSG_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.auth.Login(ctx, session.DiscardCookies, l.Phone, l.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(globals.out(), "Logged in as %s (role %s)\n", st.User.Name, roleOf(st))
	if st.Verify != 1 {
		fmt.Fprintln(globals.out(), "OTP required: run `ssg verify --phone ... --otp ...`")
	}
	return nil
}

type VerifyCmd struct {
	Phone string `help:"Phone number (nomor HP)" required:""`
	OTP   string `name:"otp" help:"Code received by SMS/WhatsApp" required:""`
}

func (v *VerifyCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.auth.VerifyOTP(ctx, session.DiscardCookies, v.Phone, v.OTP)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Fprintf(globals.out(), "Verified %s (role %s)\n", st.User.Name, roleOf(st))
	return nil
}

type StatusCmd struct {
	JSON bool `help:"Print the session as JSON"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	st := a.session.Snapshot()
	phase := a.session.Phase()

	if s.JSON {
		return printJSON(globals.out(), map[string]any{
			"phase":         phase,
			"authenticated": a.session.CheckAuth(),
			"user":          st.User,
			"role":          st.Role,
			"verify":        st.Verify,
			"lastLoginTime": st.LastLoginTime,
		})
	}

	if phase == session.Anonymous {
		fmt.Fprintln(globals.out(), "Not logged in")
		return nil
	}

	fmt.Fprintf(globals.out(), "User:       %s (%s)\n", st.User.Name, st.User.UserID)
	fmt.Fprintf(globals.out(), "Phase:      %s\n", phase)
	fmt.Fprintf(globals.out(), "Role:       %s\n", roleOf(st))
	fmt.Fprintf(globals.out(), "Logged in:  %s\n", *st.LastLoginTime)

	if info, err := utils.InspectToken(*st.AuthToken); err == nil && info.ExpiresAt != nil {
		fmt.Fprintf(globals.out(), "Token exp:  %s\n", info.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.auth.Logout(ctx, session.DiscardCookies)
	fmt.Fprintln(globals.out(), "Logged out")
	return nil
}
