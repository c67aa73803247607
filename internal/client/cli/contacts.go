package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/client/models"
)

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: " + usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// parseListArgs reads key=value pairs; a bare "fav" means favorites only.
func parseListArgs(args []string) (models.ListOptions, error) {
	var o models.ListOptions
	for _, arg := range args {
		if arg == "fav" {
			t := true
			o.IsFavorite = &t
			continue
		}

		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return o, fmt.Errorf("unexpected argument %q", arg)
		}
		switch k {
		case "search":
			o.Search = v
		case "company":
			o.Company = v
		case "sort":
			o.SortBy = v
		case "order":
			o.SortOrder = v
		case "fav":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return o, fmt.Errorf("invalid fav %q", v)
			}
			o.IsFavorite = &b
		case "page", "limit":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return o, fmt.Errorf("invalid %s %q", k, v)
			}
			if k == "page" {
				o.Page = n
			} else {
				o.Limit = n
			}
		default:
			return o, fmt.Errorf("unknown option %q", k)
		}
	}
	return o, nil
}

func (a *App) Add(ctx context.Context) error {
	var c models.Contact

	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("name is required")
	}
	c.Name = name

	fields := []struct {
		label string
		dst   *string
	}{
		{"Phone", &c.Phone},
		{"Email", &c.Email},
		{"Company", &c.Company},
		{"Job title", &c.JobTitle},
		{"Address", &c.Address},
		{"Notes", &c.Notes},
		{"Tags (comma separated)", &c.Tags},
	}
	for _, f := range fields {
		if *f.dst, err = GetSimpleText(a.reader, f.label, a.out); err != nil {
			return err
		}
	}

	if c.Birthday, err = GetDate(a.reader, "Birthday", a.out); err != nil {
		return err
	}

	created, err := a.client.CreateContact(ctx, &c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact #%d created.\n", created.ID)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	opts, err := parseListArgs(args)
	if err != nil {
		return err
	}

	page, err := a.client.ListContacts(ctx, opts)
	if err != nil {
		return err
	}
	printContacts(a.out, page.Data)
	fmt.Fprintf(a.out, "%d of %d contacts\n", len(page.Data), page.Total)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}

	c, err := a.client.GetContact(ctx, id)
	if err != nil {
		return err
	}
	printContact(a.out, c)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}

	c, err := a.client.GetContact(ctx, id)
	if err != nil {
		return err
	}

	var p models.ContactPatch
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Name", c.Name, &p.Name},
		{"Phone", c.Phone, &p.Phone},
		{"Email", c.Email, &p.Email},
		{"Company", c.Company, &p.Company},
		{"Job title", c.JobTitle, &p.JobTitle},
		{"Address", c.Address, &p.Address},
		{"Notes", c.Notes, &p.Notes},
		{"Tags", c.Tags, &p.Tags},
	}
	for _, f := range fields {
		v, err := GetOptional(a.reader, f.label, f.current, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if p.Name != nil && *p.Name == "" {
		return errors.New("name cannot be empty")
	}

	important, err := GetOptional(a.reader, "Important (y/n)", yesNo(c.IsImportant), a.out)
	if err != nil {
		return err
	}
	if important != nil {
		b := strings.HasPrefix(strings.ToLower(*important), "y")
		p.IsImportant = &b
	}

	if p == (models.ContactPatch{}) {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	updated, err := a.client.UpdateContact(ctx, id, p)
	if err != nil {
		return err
	}
	printContact(a.out, updated)
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := parseID(args, "fav <id>")
	if err != nil {
		return err
	}

	c, err := a.client.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	if c.IsFavorite {
		fmt.Fprintf(a.out, "%s added to favorites.\n", c.Name)
	} else {
		fmt.Fprintf(a.out, "%s removed from favorites.\n", c.Name)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.client.DeleteContact(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact #%d deleted.\n", id)
	return nil
}

func (a *App) BulkDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: bulkdelete <id> [id...]")
	}
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := parseID([]string{s}, "bulkdelete <id> [id...]")
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	n, err := a.client.BulkDeleteContacts(ctx, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d contacts deleted.\n", n)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	q := strings.Join(args, " ")
	if q == "" {
		return errors.New("usage: search <text>")
	}

	found, err := a.client.SearchContacts(ctx, q)
	if err != nil {
		return err
	}
	printContacts(a.out, found)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.client.ContactStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total: %d\nFavorites: %d\nCompanies: %d\nAdded last 30 days: %d\n",
		s.Total, s.Favorites, s.Companies, s.Recent)
	return nil
}
