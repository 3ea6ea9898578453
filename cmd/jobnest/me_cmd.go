package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"jobnest/internal/domain/candidate"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

func (cl *cli) myJobs(ctx context.Context, args []string) error {
	fs := cl.flags("my-jobs")
	page := fs.Int("page", 0, "0-based page")
	size := fs.Int("size", 10, "items per tab")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := cl.myJobsFlow().Load(ctx, *page, *size)
	if err != nil {
		return err
	}
	if cl.json {
		return cl.printJSON(m)
	}

	fmt.Fprintln(cl.out, "Applications")
	rows := make([][]string, 0, len(m.Applications))
	for _, a := range m.Applications {
		rows = append(rows, []string{itoa(a.ID), itoa(a.JobID), a.JobTitle, string(a.Status), yesNo(a.CanWithdraw())})
	}
	if err := cl.table(nil, []string{"ID", "JOB", "TITLE", "STATUS", "WITHDRAWABLE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(cl.out, "\nSaved")
	rows = rows[:0]
	for _, s := range m.Saved {
		title := ""
		if s.Job != nil {
			title = s.Job.Title
		}
		rows = append(rows, []string{itoa(s.JobID), title})
	}
	if err := cl.table(nil, []string{"JOB", "TITLE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(cl.out, "\nRecently viewed")
	rows = rows[:0]
	for _, v := range m.Viewed {
		title := ""
		if v.Job != nil {
			title = v.Job.Title
		}
		rows = append(rows, []string{itoa(v.JobID), title})
	}
	return cl.table(nil, []string{"JOB", "TITLE"}, rows)
}

func (cl *cli) withdraw(ctx context.Context, args []string) error {
	id, err := parseID(args, "application id")
	if err != nil {
		return err
	}
	a, err := repository.NewHTTPApplicationRepository(cl.c.API).Get(ctx, id)
	if err != nil {
		return err
	}
	msg, err := cl.myJobsFlow().Withdraw(ctx, a)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Application withdrawn"
	}
	return cl.message(map[string]string{"message": msg}, msg)
}

func (cl *cli) cv(ctx context.Context, args []string) error {
	uc := usecase.NewCVUsecase(repository.NewHTTPCVRepository(cl.c.API), cl.c.Logger)
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		list, err := uc.List(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{itoa(c.ID), c.Title, c.FileName, itoa(c.FileSize), yesNo(c.IsDefault)})
		}
		return cl.table(list, []string{"ID", "TITLE", "FILE", "BYTES", "DEFAULT"}, rows)

	case "upload":
		fs := cl.flags("cv upload")
		title := fs.String("title", "", "CV title")
		file := fs.String("file", "", "PDF file")
		makeDefault := fs.Bool("default", false, "make it the default CV")
		if err := fs.Parse(args); err != nil {
			return err
		}
		content, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		c, err := uc.Upload(ctx, *title, *file, content, *makeDefault)
		if err != nil {
			return err
		}
		return cl.message(c, fmt.Sprintf("Uploaded CV %d (%s)", c.ID, c.Title))

	case "rename":
		fs := cl.flags("cv rename")
		title := fs.String("title", "", "new title")
		pos, err := parseInterspersed(fs, args)
		if err != nil {
			return err
		}
		id, err := parseID(pos, "cv id")
		if err != nil {
			return err
		}
		current, err := repository.NewHTTPCVRepository(cl.c.API).Get(ctx, id)
		if err != nil {
			return err
		}
		c, err := uc.Rename(ctx, current, *title)
		if err != nil {
			return err
		}
		return cl.message(c, fmt.Sprintf("Renamed CV %d to %s", c.ID, c.Title))

	case "delete":
		id, err := parseID(args, "cv id")
		if err != nil {
			return err
		}
		if err := uc.Delete(ctx, id); err != nil {
			return err
		}
		return cl.message(map[string]int64{"deleted": id}, "CV deleted")

	case "default":
		id, err := parseID(args, "cv id")
		if err != nil {
			return err
		}
		c, err := uc.SetDefault(ctx, id)
		if err != nil {
			return err
		}
		return cl.message(c, fmt.Sprintf("CV %d is now the default", c.ID))
	}
	return fmt.Errorf("unknown cv command %q", sub)
}

func (cl *cli) profile(ctx context.Context, args []string) error {
	uc := usecase.NewProfileUsecase(repository.NewHTTPCandidateProfileRepository(cl.c.API))
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "show":
		p, ok, err := uc.Get(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return cl.message(nil, "No profile yet. Create one with: jobnest profile update -full-name NAME")
		}
		if cl.json {
			return cl.printJSON(p)
		}
		printProfile(cl, p)
		return nil

	case "update":
		fs := cl.flags("profile update")
		var req candidate.ProfileRequest
		skills := fs.String("skills", "", "comma separated skills")
		fs.StringVar(&req.FullName, "full-name", "", "full name")
		fs.StringVar(&req.PhoneNumber, "phone", "", "phone number")
		fs.StringVar(&req.DateOfBirth, "dob", "", "date of birth, YYYY-MM-DD")
		fs.StringVar(&req.Gender, "gender", "", "MALE, FEMALE or OTHER")
		fs.StringVar(&req.CurrentPosition, "position", "", "current position")
		fs.StringVar(&req.YearsOfExperience, "experience", "", "years of experience")
		fs.StringVar(&req.AboutMe, "about", "", "about me")
		if err := fs.Parse(args); err != nil {
			return err
		}
		for _, s := range strings.Split(*skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Skills = append(req.Skills, s)
			}
		}
		p, err := uc.Update(ctx, req)
		if err != nil {
			return err
		}
		return cl.message(p, "Profile updated")

	case "avatar":
		fs := cl.flags("profile avatar")
		file := fs.String("file", "", "image file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		content, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		up, err := uc.UploadAvatar(ctx, *file, content)
		if err != nil {
			return err
		}
		return cl.message(up, "Avatar updated: "+up.AvatarURL)
	}
	return fmt.Errorf("unknown profile command %q", sub)
}

func printProfile(cl *cli, p candidate.Profile) {
	line := func(k, v string) {
		if v != "" {
			fmt.Fprintf(cl.out, "%-12s %s\n", k+":", v)
		}
	}
	line("Name", p.FullName)
	line("Phone", p.PhoneNumber)
	line("Born", p.DateOfBirth)
	line("Gender", string(p.Gender))
	line("Position", p.CurrentPosition)
	line("Experience", p.YearsOfExperience)
	line("Skills", strings.Join(p.Skills, ", "))
	line("About", p.AboutMe)
}
