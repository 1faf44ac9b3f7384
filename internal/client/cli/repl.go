package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, collection string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
	Unarchive(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
	Purge(ctx context.Context, args []string) error
	EmptyTrash(ctx context.Context) error
	Move(ctx context.Context, args []string) error
	Lock(ctx context.Context, args []string) error
	Unlock(ctx context.Context, args []string) error
	Reveal(ctx context.Context, args []string) error
	Retry(ctx context.Context) error
	Status(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

const helpText = `Available commands:
  list | l              active notes
  archived              archived notes
  trash                 trashed notes
  add                   new note
  edit <id>             change heading and text
  show <id>             print a note
  delete <id>           move to trash
  archive <id>          move to archive
  unarchive <id>        move back to active
  restore <id>          move from trash to active
  purge <id>            delete a trashed note for good
  empty-trash           delete every trashed note
  move <id> <index>     reorder active notes (0 is the top)
  lock <id>             protect a note with a password
  unlock <id>           remove the password
  reveal <id>           show a locked note without unlocking it
  retry                 re-enable sync with the server
  status                identity, sync state and counts
  export [file]         write every collection to a JSON file
  register              create a server account
  login                 sign in again
  logout                forget cached credentials
  exit | quit           leave the program`

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to methods on a. Prompts and messages go to out. Command
// errors are reported and the loop continues. It exits on EOF, on "exit"
// or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(out, "gn %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)
		case "l", "list":
			cmdErr = a.List(ctx, common.CollectionActive)
		case "archived":
			cmdErr = a.List(ctx, common.CollectionArchived)
		case "trash":
			cmdErr = a.List(ctx, common.CollectionTrashed)
		case "add":
			cmdErr = a.Add(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "archive":
			cmdErr = a.Archive(ctx, args)
		case "unarchive":
			cmdErr = a.Unarchive(ctx, args)
		case "restore":
			cmdErr = a.Restore(ctx, args)
		case "purge":
			cmdErr = a.Purge(ctx, args)
		case "empty-trash":
			cmdErr = a.EmptyTrash(ctx)
		case "move":
			cmdErr = a.Move(ctx, args)
		case "lock":
			cmdErr = a.Lock(ctx, args)
		case "unlock":
			cmdErr = a.Unlock(ctx, args)
		case "reveal":
			cmdErr = a.Reveal(ctx, args)
		case "retry":
			cmdErr = a.Retry(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd, "(type 'help' for commands)")
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
