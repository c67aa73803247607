package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context) error

	Add(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	BulkDelete(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Search(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: register, login, exit"
	userHelp  = "Available commands: (l)ist [search= company= fav sort= order= page= limit=], " +
		"add, show <id>, edit <id>, fav <id>, delete <id>, bulkdelete <id...>, search <text>, stats, " +
		"profile, editprofile, avatar <file>, deleteaccount, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. Prompts
// inside commands share the same reader. Errors
// from handlers are printed and the loop continues. It returns on EOF,
// "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("pb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "editprofile":
			err = a.EditProfile(ctx)
		case "avatar":
			err = a.Avatar(ctx, args)
		case "deleteaccount":
			err = a.DeleteAccount(ctx)

		case "add":
			err = a.Add(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "fav":
			err = a.Favorite(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "bulkdelete":
			err = a.BulkDelete(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeErr(err))
		}
	}
}
