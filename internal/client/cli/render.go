package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/notes"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

const (
	shortIDLen     = 8
	headingWidth   = 40
	timeLayout     = "2006-01-02 15:04"
	lockedMarker   = "[locked]"
	untitledMarker = "(untitled)"
)

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// title is the heading, or the first line of an unlocked text when the
// heading is empty.
func title(n models.Note) string {
	t := n.Heading
	if t == "" && !n.Locked() {
		t, _, _ = strings.Cut(n.Text, "\n")
	}
	if t == "" {
		t = untitledMarker
	}
	if r := []rune(t); len(r) > headingWidth {
		t = string(r[:headingWidth-3]) + "..."
	}
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func renderList(w io.Writer, list []models.Note, collection string) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No notes")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	last := "UPDATED"
	if collection == common.CollectionTrashed {
		last = "TRASHED"
	}
	fmt.Fprintf(tw, "#\tID\tHEADING\t%s\n", last)
	for i, n := range list {
		when := n.UpdatedAt
		if collection == common.CollectionTrashed && n.TrashedAt != nil {
			when = *n.TrashedAt
		}
		t := title(n)
		if n.Locked() {
			t += " " + lockedMarker
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, shortID(n.ID), t, formatTime(when))
	}
	return tw.Flush()
}

// renderJSON writes a collection as an indented JSON array, for scripts.
func renderJSON(w io.Writer, list []models.Note) error {
	if list == nil {
		list = []models.Note{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func renderNote(w io.Writer, n models.Note, collection string) {
	fmt.Fprintf(w, "ID:       %s\n", n.ID)
	fmt.Fprintf(w, "Heading:  %s\n", n.Heading)
	fmt.Fprintf(w, "In:       %s\n", collection)
	fmt.Fprintf(w, "Created:  %s\n", formatTime(n.CreatedAt))
	fmt.Fprintf(w, "Updated:  %s\n", formatTime(n.UpdatedAt))
	if n.TrashedAt != nil {
		fmt.Fprintf(w, "Trashed:  %s\n", formatTime(*n.TrashedAt))
	}
	fmt.Fprintln(w)
	if n.Locked() {
		fmt.Fprintln(w, lockedMarker, "use 'reveal' to read it")
		return
	}
	fmt.Fprintln(w, n.Text)
}

func renderStatus(w io.Writer, st notes.Status, mode Mode) {
	fmt.Fprintf(w, "Identity: %s\n", st.Identity)
	fmt.Fprintf(w, "Mode:     %s\n", mode)
	fmt.Fprintf(w, "Pending:  %d\n", st.Pending)
	if st.LastError != nil {
		fmt.Fprintf(w, "Last error: %v\n", st.LastError)
	}
	for _, coll := range common.Collections {
		fmt.Fprintf(w, "%-9s %d\n", coll+":", st.Counts[coll])
	}
}
