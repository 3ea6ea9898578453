package main

import (
	"context"
	"fmt"
	"strings"

	"jobnest/internal/domain/community"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

func (cl *cli) community(ctx context.Context, args []string) error {
	uc := usecase.NewCommunityUsecase(repository.NewHTTPCommunityPostRepository(cl.c.API))
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		fs := cl.flags("community list")
		page := fs.Int("page", 0, "0-based page")
		limit := fs.Int("limit", 0, "posts per page")
		if err := fs.Parse(args); err != nil {
			return err
		}
		feed, err := uc.Feed(ctx, *page, *limit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(feed.Content))
		for _, p := range feed.Content {
			rows = append(rows, []string{itoa(p.ID), p.Title, p.AuthorName, p.Category, fmt.Sprintf("%d/%d", p.LikeCount, p.CommentCount)})
		}
		return cl.table(feed, []string{"ID", "TITLE", "AUTHOR", "CATEGORY", "LIKES/COMMENTS"}, rows)

	case "show":
		id, err := parseID(args, "post id")
		if err != nil {
			return err
		}
		p, err := uc.Get(ctx, id)
		if err != nil {
			return err
		}
		if cl.json {
			return cl.printJSON(p)
		}
		_, err = fmt.Fprintf(cl.out, "%s\nby %s\n\n%s\n", p.Title, p.AuthorName, strings.TrimSpace(p.Content))
		return err

	case "post", "edit":
		fs := cl.flags("community " + sub)
		var req community.PostRequest
		fs.StringVar(&req.Title, "title", "", "title")
		fs.StringVar(&req.Content, "content", "", "content")
		fs.StringVar(&req.Category, "category", "", "category")
		fs.StringVar(&req.ImageURL, "image", "", "image URL")
		pos, err := parseInterspersed(fs, args)
		if err != nil {
			return err
		}
		var p community.Post
		if sub == "post" {
			p, err = uc.Create(ctx, req)
		} else {
			var id int64
			if id, err = parseID(pos, "post id"); err != nil {
				return err
			}
			p, err = uc.Update(ctx, id, req)
		}
		if err != nil {
			return err
		}
		return cl.message(p, fmt.Sprintf("Post %d saved", p.ID))

	case "delete":
		id, err := parseID(args, "post id")
		if err != nil {
			return err
		}
		if err := uc.Delete(ctx, id); err != nil {
			return err
		}
		return cl.message(map[string]int64{"deleted": id}, "Post deleted")
	}
	return fmt.Errorf("unknown community command %q", sub)
}

func (cl *cli) companies(ctx context.Context, args []string) error {
	fs := cl.flags("companies")
	limit := fs.Int("limit", 6, "how many")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := usecase.NewCompanyUsecase(repository.NewHTTPCompanyRepository(cl.c.API)).Top(ctx, *limit)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{itoa(c.ID), c.Name, c.Industry, itoa(c.OpenPositions), yesNo(c.Verified)})
	}
	return cl.table(list, []string{"ID", "NAME", "INDUSTRY", "OPEN", "VERIFIED"}, rows)
}
