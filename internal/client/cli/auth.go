package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/phonebook/internal/client/models"
	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/filex"
)

// maxAvatarBytes is a local sanity cap; the server enforces its own limit.
const maxAvatarBytes = 10 << 20

func (a *App) readCredentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)
	if len(pw) == 0 {
		return "", "", errors.New("password is required")
	}
	return email, string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	first, err := GetSimpleText(a.reader, "First name (optional)", a.out)
	if err != nil {
		return err
	}
	last, err := GetSimpleText(a.reader, "Last name (optional)", a.out)
	if err != nil {
		return err
	}

	u, err := a.client.Register(ctx, email, password, first, last)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s. You can log in now.\n", u.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.userName = u.DisplayName()
	fmt.Fprintf(a.out, "Welcome, %s!\n", a.userName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	_ = a.client.Logout(ctx)
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) EditProfile(ctx context.Context) error {
	u, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	var p models.ProfilePatch
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"First name", u.FirstName, &p.FirstName},
		{"Last name", u.LastName, &p.LastName},
		{"Phone", u.Phone, &p.Phone},
		{"Address", u.Address, &p.Address},
		{"Timezone", u.Timezone, &p.Timezone},
	}
	for _, f := range fields {
		v, err := GetOptional(a.reader, f.label, f.current, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if p == (models.ProfilePatch{}) {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	updated, err := a.client.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	a.userName = updated.DisplayName()
	printUser(a.out, updated)
	return nil
}

// Avatar uploads the image at args[0]; the server resizes it.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: avatar <file>")
	}

	data, err := filex.ReadLimited(args[0], maxAvatarBytes)
	if err != nil {
		return err
	}

	u, err := a.client.UploadAvatar(ctx, filepath.Base(args[0]), http.DetectContentType(data), data)
	if err != nil {
		return err
	}
	if u.AvatarURL != nil {
		fmt.Fprintf(a.out, "Avatar uploaded: %s\n", *u.AvatarURL)
	}
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Delete your account and all contacts?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteAccount(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
