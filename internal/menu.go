package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/starford/othala/internal/recordservice"
	"github.com/starford/othala/internal/repo"
)

// runMenu drives the interactive prompt loop. It is presentation glue only:
// every operation goes through the record service, and every error is shown
// and swallowed so the loop continues.
func runMenu(ctx context.Context, svc *recordservice.Service, in io.Reader, out io.Writer) error {
	m := &menu{svc: svc, in: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "Othala note template keeper. Enter a number to choose an option.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprintf(out, "\n%d template(s) stored.\n", svc.Len())
		fmt.Fprintln(out, "  1) add     2) show    3) list")
		fmt.Fprintln(out, "  4) edit    5) delete  6) search")
		fmt.Fprintln(out, "  7) save    0) quit")

		choice, ok := m.prompt("> ")
		if !ok {
			// EOF on stdin ends the session like quit, without the save
			// prompt, since nobody is left to answer it.
			if svc.Dirty() {
				fmt.Fprintln(out, "warning: unsaved changes discarded")
			}
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.add(ctx)
		case "2":
			m.show(ctx)
		case "3":
			m.list(ctx)
		case "4":
			m.edit(ctx)
		case "5":
			m.delete(ctx)
		case "6":
			m.search(ctx)
		case "7":
			m.save(ctx)
		case "0", "q", "quit":
			if svc.Dirty() && m.confirm("Save changes before quitting? [y/N] ") {
				m.save(ctx)
			}
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "":
			// Empty input, show the menu again.
		default:
			fmt.Fprintf(out, "unknown option: %s\n", choice)
		}
	}
}

type menu struct {
	svc *recordservice.Service
	in  *bufio.Scanner
	out io.Writer
}

func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *menu) confirm(label string) bool {
	answer, ok := m.prompt(label)
	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (m *menu) promptCategory() (string, bool) {
	fmt.Fprintf(m.out, "Categories: %s\n", strings.Join(m.svc.Categories(), ", "))
	category, ok := m.prompt("Category: ")
	return strings.TrimSpace(category), ok
}

func (m *menu) promptKey() (int, bool) {
	raw, ok := m.prompt("ID: ")
	if !ok {
		return 0, false
	}
	key, err := repo.ParseKey(strings.TrimSpace(raw))
	if err != nil {
		m.fail(err)
		return 0, false
	}
	return key, true
}

func (m *menu) fail(err error) {
	fmt.Fprintf(m.out, "error: %v\n", err)
}

func (m *menu) add(ctx context.Context) {
	category, ok := m.promptCategory()
	if !ok {
		return
	}
	body, ok := m.prompt("Note: ")
	if !ok {
		return
	}
	rec, err := m.svc.Create(ctx, category, body)
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "\n%s\n", rec.Display())
}

func (m *menu) show(ctx context.Context) {
	key, ok := m.promptKey()
	if !ok {
		return
	}
	rec, err := m.svc.Get(ctx, key)
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "\n%s\n", rec.Display())
}

func (m *menu) list(ctx context.Context) {
	category, ok := m.promptCategory()
	if !ok {
		return
	}
	records, err := m.svc.List(ctx, category)
	if err != nil {
		m.fail(err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintf(m.out, "no templates in %s\n", category)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(m.out, "\n%s\n", rec.Display())
	}
}

func (m *menu) edit(ctx context.Context) {
	category, ok := m.promptCategory()
	if !ok {
		return
	}
	key, ok := m.promptKey()
	if !ok {
		return
	}
	body, ok := m.prompt("New note: ")
	if !ok {
		return
	}
	rec, err := m.svc.Edit(ctx, category, key, body)
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "\n%s\n", rec.Display())
}

func (m *menu) delete(ctx context.Context) {
	key, ok := m.promptKey()
	if !ok {
		return
	}
	if err := m.svc.Delete(ctx, key); err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "deleted %d\n", key)
}

func (m *menu) search(ctx context.Context) {
	query, ok := m.prompt("Search: ")
	if !ok || strings.TrimSpace(query) == "" {
		return
	}
	results, err := m.svc.Search(ctx, strings.TrimSpace(query), 20)
	if err != nil {
		m.fail(err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(m.out, "no matches")
		return
	}
	for _, r := range results {
		fmt.Fprintf(m.out, "%d  %-18s %s\n", r.Key, r.Category, r.Snippet)
	}
}

func (m *menu) save(ctx context.Context) {
	if err := m.svc.Save(ctx); err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintln(m.out, "saved")
}
