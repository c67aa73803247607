package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/client/models"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func star(b bool) string {
	if b {
		return "*"
	}
	return ""
}

func printContacts(w io.Writer, cs []models.Contact) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAV\tNAME\tPHONE\tEMAIL\tCOMPANY")
	for _, c := range cs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, star(c.IsFavorite), c.Name, c.Phone, c.Email, c.Company)
	}
	_ = tw.Flush()
}

func printContact(w io.Writer, c *models.Contact) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Phone:\t%s\n", c.Phone)
	fmt.Fprintf(tw, "Email:\t%s\n", c.Email)
	fmt.Fprintf(tw, "Company:\t%s\n", c.Company)
	fmt.Fprintf(tw, "Job title:\t%s\n", c.JobTitle)
	fmt.Fprintf(tw, "Address:\t%s\n", c.Address)
	if c.Birthday != nil {
		fmt.Fprintf(tw, "Birthday:\t%s\n", c.Birthday.Format(time.DateOnly))
	}
	fmt.Fprintf(tw, "Notes:\t%s\n", c.Notes)
	fmt.Fprintf(tw, "Tags:\t%s\n", c.Tags)
	fmt.Fprintf(tw, "Favorite:\t%s\n", yesNo(c.IsFavorite))
	fmt.Fprintf(tw, "Important:\t%s\n", yesNo(c.IsImportant))
	_ = tw.Flush()
}

func printUser(w io.Writer, u *models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Address:\t%s\n", u.Address)
	fmt.Fprintf(tw, "Timezone:\t%s\n", u.Timezone)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.AvatarURL != nil {
		fmt.Fprintf(tw, "Avatar:\t%s\n", *u.AvatarURL)
	}
	if u.LastLogin != nil {
		fmt.Fprintf(tw, "Last login:\t%s\n", u.LastLogin.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
}
