package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"jobnest/internal/delivery/http/dto"
	"jobnest/internal/domain/job"
	"jobnest/internal/search"
	"jobnest/internal/usecase"
)

// selections collects repeated -filter category=value flags.
type selections map[search.FilterCategory][]string

func (s selections) String() string { return "" }

func (s selections) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(val) == "" {
		return fmt.Errorf("filter must be category=value, got %q", v)
	}
	c, err := search.ParseCategory(k)
	if err != nil {
		return fmt.Errorf("%w: %q", err, k)
	}
	s[c] = append(s[c], strings.TrimSpace(val))
	return nil
}

func (cl *cli) jobs(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "search":
			return cl.jobsSearch(ctx, args[1:])
		case "suggest":
			return cl.jobsSuggest(ctx, args[1:])
		case "stats":
			return cl.jobsStats(ctx)
		case "filters":
			return cl.jobsFilters()
		}
	}

	fs := cl.flags("jobs")
	title := fs.String("title", "", "match title or company")
	location := fs.String("location", "", "match location")
	sortMode := fs.String("sort", "", "recent, oldest, salary_high, salary_low or urgent_first")
	page := fs.Int("page", 0, "0-based page index")
	pageSize := fs.Int("page-size", 0, "jobs per page")
	fold := fs.Bool("fold", false, "ignore accents in -title and -location")
	sel := selections{}
	fs.Var(sel, "filter", "category=value, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := search.ParseSort(*sortMode)
	if err != nil {
		return err
	}
	q := search.Query{Title: *title, Location: *location, Selected: sel, Sort: mode, PageSize: *pageSize, IgnoreDiacritics: *fold}

	l, err := cl.c.Jobs.ListJobs(ctx, q)
	if err != nil {
		return err
	}
	if *page > 0 && l.Total > 0 {
		q.Offset = search.OffsetForPage(*page, l.PageSize, l.Total)
		if l, err = cl.c.Jobs.ListJobs(ctx, q); err != nil {
			return err
		}
	}

	if cl.json {
		return cl.printJSON(dto.NewListingResponse(l))
	}
	if err := cl.jobCards(dto.NewJobCards(l.Page)); err != nil {
		return err
	}
	note := ""
	if l.Source == search.Fallback {
		note = " (sample data, backend unavailable)"
	}
	_, err = fmt.Fprintf(cl.out, "\npage %d of %d, %d jobs%s\n", l.PageIndex+1, max(l.PageCount, 1), l.Total, note)
	return err
}

func (cl *cli) jobCards(cards []dto.JobCard) error {
	rows := make([][]string, 0, len(cards))
	for _, j := range cards {
		rows = append(rows, []string{itoa(j.ID), j.Title, j.CompanyName, j.Location, j.Employment, j.SalaryRange, yesNo(j.IsUrgent)})
	}
	return cl.table(cards, []string{"ID", "TITLE", "COMPANY", "LOCATION", "TYPE", "SALARY", "URGENT"}, rows)
}

func (cl *cli) jobsSearch(ctx context.Context, args []string) error {
	fs := cl.flags("jobs search")
	p := job.SearchParams{}
	fs.StringVar(&p.Keyword, "keyword", "", "keyword")
	fs.StringVar(&p.Location, "location", "", "location")
	fs.StringVar(&p.Category, "category", "", "category name")
	fs.StringVar(&p.Type, "type", "", "employment type code")
	fs.IntVar(&p.Page, "page", 0, "0-based page")
	fs.IntVar(&p.Size, "size", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := cl.c.Jobs.SearchJobs(ctx, p)
	if err != nil {
		return err
	}
	if cl.json {
		return cl.printJSON(res)
	}
	if err := cl.jobCards(dto.NewJobCards(res.Content)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cl.out, "\npage %d of %d, %d jobs\n", res.Number+1, max(res.TotalPages, 1), res.TotalElements)
	return err
}

func (cl *cli) jobsSuggest(ctx context.Context, args []string) error {
	fs := cl.flags("jobs suggest")
	field := fs.String("field", "title", "title or location")
	limit := fs.Int("limit", 8, "max suggestions")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	out, err := cl.c.Jobs.Suggest(ctx, *field, strings.Join(pos, " "), *limit)
	if err != nil {
		return err
	}
	if cl.json {
		return cl.printJSON(out)
	}
	for _, s := range out {
		fmt.Fprintln(cl.out, s)
	}
	return nil
}

func (cl *cli) jobsStats(ctx context.Context) error {
	stats, err := cl.c.Jobs.CategoryStats(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.CategoryName, itoa(s.OpenPositions)})
	}
	return cl.table(stats, []string{"CATEGORY", "OPEN"}, rows)
}

func (cl *cli) jobsFilters() error {
	cat := search.Catalog()
	if cl.json {
		return cl.printJSON(cat)
	}
	for _, f := range cat {
		fmt.Fprintf(cl.out, "%s (%s)\n", f.Label, f.Category)
		for _, v := range f.Values {
			fmt.Fprintf(cl.out, "  %s\n", v)
		}
	}
	return nil
}

func (cl *cli) job(ctx context.Context, args []string) error {
	if len(args) > 0 && (args[0] == "save" || args[0] == "unsave") {
		id, err := parseID(args[1:], "job id")
		if err != nil {
			return err
		}
		saved, err := cl.detail().ToggleSave(ctx, id, args[0] == "unsave")
		if err != nil {
			return err
		}
		msg := "Job saved"
		if !saved {
			msg = "Job removed from saved"
		}
		return cl.message(map[string]bool{"saved": saved}, msg)
	}

	id, err := parseID(args, "job id")
	if err != nil {
		return err
	}
	d, err := cl.detail().Get(ctx, id)
	if err != nil {
		return err
	}
	_, loggedIn := cl.c.Session.User()
	action := d.Action(loggedIn)
	if cl.json {
		return cl.printJSON(map[string]any{"job": d.Job, "applied": d.Applied, "saved": d.Saved, "action": action})
	}

	j := d.Job
	card := dto.NewJobCard(j)
	fmt.Fprintf(cl.out, "%s\n%s, %s\n\n", j.Title, j.CompanyName, j.Location)
	fmt.Fprintf(cl.out, "Type:        %s\n", card.Employment)
	if card.SalaryRange != "" {
		fmt.Fprintf(cl.out, "Salary:      %s\n", card.SalaryRange)
	}
	if j.ExperienceLevel != "" {
		fmt.Fprintf(cl.out, "Level:       %s\n", j.ExperienceLevel)
	}
	if len(card.Skills) > 0 {
		fmt.Fprintf(cl.out, "Skills:      %s\n", strings.Join(card.Skills, ", "))
	}
	if d.Saved {
		fmt.Fprintln(cl.out, "Saved:       yes")
	}
	fmt.Fprintf(cl.out, "\n%s\n\n", strings.TrimSpace(j.Description))

	switch action {
	case usecase.ActionLogin:
		fmt.Fprintln(cl.out, "Log in to apply.")
	case usecase.ActionAlreadyApply:
		fmt.Fprintf(cl.out, "You have already applied (%s).\n", d.Applied.Status)
	case usecase.ActionApplyAgain:
		fmt.Fprintf(cl.out, "Apply again with: jobnest apply %d -cv <id>\n", j.ID)
	default:
		fmt.Fprintf(cl.out, "Apply with: jobnest apply %d -cv <id>\n", j.ID)
	}
	return nil
}

func (cl *cli) apply(ctx context.Context, args []string) error {
	fs := cl.flags("apply")
	cvID := fs.Int64("cv", 0, "CV id; defaults to your default CV")
	cover := fs.String("cover", "", "cover letter")
	resume := fs.String("resume", "", "optional resume PDF to attach")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	jobID, err := parseID(pos, "job id")
	if err != nil {
		return err
	}

	flow := cl.applyFlow()
	form, err := flow.Prepare(ctx, jobID)
	if err != nil && !errors.Is(err, usecase.ErrUnauthorized) {
		return err
	}

	in := usecase.ApplyInput{CoverLetter: *cover}
	switch {
	case *cvID > 0:
		in.CVID = cvID
	case form.SelectedCV != nil:
		in.CVID = form.SelectedCV
	}
	if *resume != "" {
		content, err := os.ReadFile(*resume)
		if err != nil {
			return err
		}
		if in.ResumeURL, err = usecase.AttachResume(*resume, content); err != nil {
			return err
		}
	}

	a, err := flow.Submit(ctx, jobID, in)
	if err != nil {
		return err
	}
	return cl.message(a, fmt.Sprintf("Applied to %s (application %d, %s)", form.Job.Title, a.ID, a.Status))
}
