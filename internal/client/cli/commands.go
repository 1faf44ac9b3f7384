package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/notes"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/filex"
	"github.com/dmitrijs2005/gophnotes/internal/netx"
)

// DefaultExportFile is used when export is given no path.
const DefaultExportFile = "gophnotes-export.json"

var (
	errAmbiguousID      = errors.New("ambiguous note id")
	errPasswordMismatch = errors.New("passwords do not match")
)

// noteID takes the id from args or prompts for it, then resolves a unique
// prefix to the full id.
func (a *App) noteID(args []string) (string, error) {
	var ref string
	if len(args) > 0 {
		ref = args[0]
	} else {
		var err error
		if ref, err = getSimpleText(a.reader, "Enter note id", a.out); err != nil {
			return "", err
		}
	}
	if ref == "" {
		return "", notes.ErrNotFound
	}

	snap := a.store.Snapshot()
	var match string
	for _, coll := range common.Collections {
		for _, n := range snap.Get(coll) {
			if n.ID == ref {
				return ref, nil
			}
			if strings.HasPrefix(n.ID, ref) {
				if match != "" {
					return "", fmt.Errorf("%w: %q", errAmbiguousID, ref)
				}
				match = n.ID
			}
		}
	}
	if match == "" {
		return "", notes.ErrNotFound
	}
	return match, nil
}

func (a *App) List(_ context.Context, collection string) error {
	list, err := a.store.List(collection)
	if err != nil {
		return err
	}
	return renderList(a.out, list, collection)
}

func (a *App) Add(ctx context.Context) error {
	heading, err := getSimpleText(a.reader, "Enter heading", a.out)
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}

	n, err := a.store.Add(ctx, heading, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added", shortID(n.ID))
	return nil
}

// Edit replaces heading and text; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}
	n, _, err := a.store.Get(id)
	if err != nil {
		return err
	}
	if n.Locked() {
		return notes.ErrNoteLocked
	}

	heading, err := getSimpleText(a.reader, fmt.Sprintf("Enter heading [%s]", n.Heading), a.out)
	if err != nil {
		return err
	}
	if heading == "" {
		heading = n.Heading
	}
	text, err := GetMultiline(a.reader, "Enter note text (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		text = n.Text
	}

	if err := a.store.Update(ctx, id, heading, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated", shortID(id))
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}
	n, coll, err := a.store.Get(id)
	if err != nil {
		return err
	}
	renderNote(a.out, n, coll)
	return nil
}

// moveCmd runs a one-id store action and reports it.
func (a *App) moveCmd(ctx context.Context, args []string, done string, fn func(context.Context, string) error) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}
	if err := fn(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, done, shortID(id))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	return a.moveCmd(ctx, args, "Moved to trash:", a.store.Trash)
}

func (a *App) Archive(ctx context.Context, args []string) error {
	return a.moveCmd(ctx, args, "Archived:", a.store.Archive)
}

func (a *App) Unarchive(ctx context.Context, args []string) error {
	return a.moveCmd(ctx, args, "Unarchived:", a.store.Unarchive)
}

func (a *App) Restore(ctx context.Context, args []string) error {
	return a.moveCmd(ctx, args, "Restored:", a.store.Restore)
}

func (a *App) Purge(ctx context.Context, args []string) error {
	return a.moveCmd(ctx, args, "Deleted permanently:", a.store.Purge)
}

func (a *App) EmptyTrash(ctx context.Context) error {
	if !GetConfirmation(a.reader, "Delete every note in the trash?", a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.store.EmptyTrash(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Trash emptied")
	return nil
}

func (a *App) Move(ctx context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}

	var raw string
	if len(args) > 1 {
		raw = args[1]
	} else if raw, err = getSimpleText(a.reader, "Enter new position (0 is the top)", a.out); err != nil {
		return err
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", notes.ErrIndexOutOfRange, raw)
	}

	if err := a.store.Move(ctx, id, index); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Moved %s to position %d\n", shortID(id), index)
	return nil
}

func (a *App) Lock(ctx context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter lock password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.out, "Repeat lock password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	if err := a.store.Lock(ctx, id, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Locked", shortID(id))
	return nil
}

func (a *App) Unlock(ctx context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter lock password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Unlock(ctx, id, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Unlocked", shortID(id))
	return nil
}

func (a *App) Reveal(_ context.Context, args []string) error {
	id, err := a.noteID(args)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter lock password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	n, err := a.store.Reveal(id, password)
	if err != nil {
		return err
	}
	_, coll, err := a.store.Get(id)
	if err != nil {
		return err
	}
	renderNote(a.out, n, coll)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.store.Status(ctx)
	renderStatus(a.out, st, a.mode())
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	path := DefaultExportFile
	if len(args) > 0 {
		path = args[0]
	}
	source, err := a.exportTo(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %s snapshot to %s\n", source, path)
	return nil
}

// exportTo writes an export document to path. With sync available the
// server builds the snapshot; otherwise, or when that fails, the local state
// is written. It reports which of the two was used.
func (a *App) exportTo(ctx context.Context, path string) (string, error) {
	if a.identity.Current().IsRemote() && a.store.Available() {
		data, err := a.remoteExport(ctx)
		if err == nil {
			return "server", filex.WriteFileAtomic(path, data, 0o600)
		}
		a.logger.Warn(ctx, "remote export failed, writing local snapshot", "error", err)
	}

	data, err := json.MarshalIndent(models.Snapshot{
		ExportedAt:  time.Now().UTC(),
		Collections: a.store.Snapshot(),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return "local", filex.WriteFileAtomic(path, data, 0o600)
}

func (a *App) remoteExport(ctx context.Context) ([]byte, error) {
	url, err := a.store.Export(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RemoteTimeout)
	defer cancel()

	var buf bytes.Buffer
	if _, err := netx.DownloadPresignedURL(ctx, url, &buf); err != nil {
		return nil, fmt.Errorf("download export: %w", err)
	}
	return buf.Bytes(), nil
}
