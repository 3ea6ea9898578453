package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"jobnest/internal/app"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

type command func(ctx context.Context, args []string) error

type cli struct {
	c    *app.Container
	out  io.Writer
	in   io.Reader
	json bool
}

func (cl *cli) commands() map[string]command {
	return map[string]command{
		"jobs":          cl.jobs,
		"job":           cl.job,
		"apply":         cl.apply,
		"my-jobs":       cl.myJobs,
		"withdraw":      cl.withdraw,
		"cv":            cl.cv,
		"profile":       cl.profile,
		"notifications": cl.notifications,
		"community":     cl.community,
		"companies":     cl.companies,

		"login":               cl.login,
		"login-google":        cl.loginGoogle,
		"logout":              cl.logout,
		"whoami":              cl.whoami,
		"register":            cl.register,
		"verify-email":        cl.verifyEmail,
		"resend-verification": cl.resendVerification,
		"forgot-password":     cl.forgotPassword,
		"reset-password":      cl.resetPassword,
		"change-password":     cl.changePassword,
	}
}

func (cl *cli) dispatch(ctx context.Context, args []string) error {
	cmd, ok := cl.commands()[args[0]]
	if !ok {
		printUsage(cl.out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd(ctx, args[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: jobnest [-json] [-v] <command> [flags]

jobs:
  jobs [-title T] [-location L] [-sort MODE] [-page N] [-page-size N] [-filter category=value]...
  jobs search [-keyword K] [-location L] [-category C] [-type T] [-page N] [-size N]
  jobs suggest -field title|location <text>
  jobs stats
  job <id>                 show one job
  job save|unsave <id>
  apply <job-id> -cv ID [-cover TEXT] [-resume FILE.pdf]

candidate:
  my-jobs [-page N] [-size N]
  withdraw <application-id>
  cv list | upload -title T -file F [-default] | rename <id> -title T | delete <id> | default <id>
  profile show | update [-full-name ...] | avatar -file F
  notifications list [-unread] | recent | count | read <id> | read-all | delete <id> | watch

community:
  community list [-page N] [-limit N] | show <id> | post -title T -content C | edit <id> ... | delete <id>
  companies [-limit N]

account:
  login -email E [-password P]      (password is read from stdin when omitted)
  login-google [-role CANDIDATE|EMPLOYER]
  logout | whoami
  register -username U -email E -password P [-role R]
  verify-email <token> | resend-verification -email E
  forgot-password -email E | reset-password -token T -password P -confirm P
  change-password -old P -new P -confirm P
`)
}

func (cl *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cl.out)
	return fs
}

// parseInterspersed lets flags follow positional arguments, so both
// "job save 5" and "cv rename 3 -title X" read naturally.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return id, nil
}

// readLine reads one line from stdin, for passwords and pasted codes.
func (cl *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(cl.out, prompt)
	line, err := bufio.NewReader(cl.in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (cl *cli) printJSON(v any) error {
	enc := json.NewEncoder(cl.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table prints rows under header unless -json was given, in which case v is
// printed instead.
func (cl *cli) table(v any, header []string, rows [][]string) error {
	if cl.json {
		return cl.printJSON(v)
	}
	tw := tabwriter.NewWriter(cl.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func (cl *cli) message(v any, msg string) error {
	if cl.json {
		return cl.printJSON(v)
	}
	_, err := fmt.Fprintln(cl.out, msg)
	return err
}

func (cl *cli) detail() *usecase.JobDetailUsecase {
	api := cl.c.API
	return usecase.NewJobDetailUsecase(
		repository.NewHTTPJobRepository(api),
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPSavedJobRepository(api),
		repository.NewHTTPJobViewRepository(api),
		cl.c.Session, cl.c.Logger,
	)
}

func (cl *cli) applyFlow() *usecase.ApplyUsecase {
	api := cl.c.API
	return usecase.NewApplyUsecase(
		repository.NewHTTPJobRepository(api),
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPCandidateProfileRepository(api),
		repository.NewHTTPCVRepository(api),
		cl.c.Session, cl.c.Logger,
	)
}

func (cl *cli) myJobsFlow() *usecase.MyJobsUsecase {
	api := cl.c.API
	return usecase.NewMyJobsUsecase(
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPSavedJobRepository(api),
		repository.NewHTTPJobViewRepository(api),
		cl.c.Session, cl.c.Logger,
	)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
