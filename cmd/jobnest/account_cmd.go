package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/googleauth"
)

func (cl *cli) login(ctx context.Context, args []string) error {
	fs := cl.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password; read from stdin when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		p, err := cl.readLine("Password: ")
		if err != nil {
			return err
		}
		*password = p
	}

	u, err := cl.c.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return cl.message(u, fmt.Sprintf("Logged in as %s (%s)", u.Email, u.Role))
}

// loginGoogle runs the installed-app OAuth flow: the user opens the printed
// URL, pastes the code back, and the ID token goes to the backend.
func (cl *cli) loginGoogle(ctx context.Context, args []string) error {
	fs := cl.flags("login-google")
	role := fs.String("role", "", "role for a new account, CANDIDATE or EMPLOYER")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := googleauth.New(cl.c.Config.OAuth)
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "Open this link to sign in with Google:\n%s\n\n", flow.AuthCodeURL(randomState()))
	code, err := cl.readLine("Paste the code here: ")
	if err != nil {
		return err
	}
	credential, err := flow.Exchange(ctx, code)
	if err != nil {
		return err
	}

	u, err := cl.c.Session.LoginWithGoogle(ctx, credential, user.Role(strings.ToUpper(*role)))
	if err != nil {
		return err
	}
	return cl.message(u, fmt.Sprintf("Logged in as %s (%s)", u.Email, u.Role))
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (cl *cli) logout(ctx context.Context, _ []string) error {
	_ = cl.c.Session.Logout(ctx)
	return cl.message(map[string]bool{"ok": true}, "Logged out")
}

func (cl *cli) whoami(_ context.Context, _ []string) error {
	snap := cl.c.Session.Snapshot()
	if !snap.Authenticated() {
		msg := "Not logged in"
		if snap.Err != nil {
			msg += ": " + snap.Err.Error()
		}
		return cl.message(map[string]string{"state": snap.State.String()}, msg)
	}
	u := *snap.User
	return cl.message(u, fmt.Sprintf("%s <%s> %s", u.Username, u.Email, u.Role))
}

func (cl *cli) register(ctx context.Context, args []string) error {
	fs := cl.flags("register")
	var req user.RegisterRequest
	role := fs.String("role", string(user.RoleCandidate), "CANDIDATE or EMPLOYER")
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Role = user.Role(strings.ToUpper(*role))

	msg, err := cl.c.Session.Register(ctx, req)
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Registered. Check your email to verify the account."))
}

func (cl *cli) verifyEmail(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing verification token")
	}
	msg, err := cl.c.Session.VerifyEmail(ctx, args[0])
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Email verified"))
}

func (cl *cli) resendVerification(ctx context.Context, args []string) error {
	fs := cl.flags("resend-verification")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := cl.c.Session.ResendVerification(ctx, *email)
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Verification email sent"))
}

func (cl *cli) forgotPassword(ctx context.Context, args []string) error {
	fs := cl.flags("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := cl.c.Session.ForgotPassword(ctx, *email)
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Password reset email sent"))
}

func (cl *cli) resetPassword(ctx context.Context, args []string) error {
	fs := cl.flags("reset-password")
	token := fs.String("token", "", "reset token from the email")
	password := fs.String("password", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := cl.c.Session.ResetPassword(ctx, *token, *password, *confirm)
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Password reset"))
}

func (cl *cli) changePassword(ctx context.Context, args []string) error {
	fs := cl.flags("change-password")
	old := fs.String("old", "", "current password")
	password := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := cl.c.Session.ChangePassword(ctx, *old, *password, *confirm)
	if err != nil {
		return err
	}
	return cl.message(map[string]string{"message": msg}, orDefault(msg, "Password changed"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
