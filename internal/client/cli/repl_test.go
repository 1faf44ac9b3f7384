package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) rec(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) List(_ context.Context, c string) error { return f.rec("list", c) }
func (f *fakeExec) Add(context.Context) error { return f.rec("add") }
func (f *fakeExec) Edit(_ context.Context, a []string) error { return f.rec("edit", a...) }
func (f *fakeExec) Show(_ context.Context, a []string) error { return f.rec("show", a...) }
func (f *fakeExec) Delete(_ context.Context, a []string) error { return f.rec("delete", a...) }
func (f *fakeExec) Archive(_ context.Context, a []string) error { return f.rec("archive", a...) }
func (f *fakeExec) Unarchive(_ context.Context, a []string) error { return f.rec("unarchive", a...) }
func (f *fakeExec) Restore(_ context.Context, a []string) error { return f.rec("restore", a...) }
func (f *fakeExec) Purge(_ context.Context, a []string) error { return f.rec("purge", a...) }
func (f *fakeExec) EmptyTrash(context.Context) error { return f.rec("empty-trash") }
func (f *fakeExec) Move(_ context.Context, a []string) error { return f.rec("move", a...) }
func (f *fakeExec) Lock(_ context.Context, a []string) error { return f.rec("lock", a...) }
func (f *fakeExec) Unlock(_ context.Context, a []string) error { return f.rec("unlock", a...) }
func (f *fakeExec) Reveal(_ context.Context, a []string) error { return f.rec("reveal", a...) }
func (f *fakeExec) Retry(context.Context) error { return f.rec("retry") }
func (f *fakeExec) Status(context.Context) error { return f.rec("status") }
func (f *fakeExec) Export(_ context.Context, a []string) error { return f.rec("export", a...) }
func (f *fakeExec) Register(context.Context) error { return f.rec("register") }
func (f *fakeExec) Login(context.Context) error { return f.rec("login") }
func (f *fakeExec) Logout(context.Context) error { return f.rec("logout") }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"l",
		"list",
		"archived",
		"trash",
		"add",
		"",
		"edit ab",
		"show ab",
		"delete ab",
		"archive ab",
		"unarchive ab",
		"restore ab",
		"purge ab",
		"empty-trash",
		"move ab 2",
		"lock ab",
		"unlock ab",
		"reveal ab",
		"retry",
		"status",
		"export out.json",
		"register",
		"login",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "(local)" }, rdr(input), &out)

	assert.Equal(t, []string{
		"list active", "list active", "list archived", "list trashed",
		"add", "edit ab", "show ab", "delete ab", "archive ab", "unarchive ab",
		"restore ab", "purge ab", "empty-trash", "move ab 2", "lock ab",
		"unlock ab", "reveal ab", "retry", "status", "export out.json",
		"register", "login", "logout",
	}, exec.calls)
}

func TestRunREPL_ReportsErrorsAndUnknownCommands(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("show x\nfoobar\nquit\n"), &out)

	assert.Equal(t, "gn > Error: boom\n"+
		"gn > Unknown command: foobar (type 'help' for commands)\n"+
		"gn > Bye!\n", out.String())
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("status"), &out)
	assert.Equal(t, []string{"status"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("status\n"), &out)
	assert.Empty(t, exec.calls)
}

func TestRunREPL_WritesToAppOutput(t *testing.T) {
	app := newTestApp(t, "help\nbogus\nexit\n")

	runREPL(context.Background(), app.App, app.status, app.reader, app.out)

	got := app.buf.String()
	assert.Contains(t, got, "gn "+app.status()+"> ")
	assert.Contains(t, got, "Available commands:")
	assert.Contains(t, got, "Unknown command: bogus")
	assert.True(t, strings.HasSuffix(got, "Bye!\n"))
}
