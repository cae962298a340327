package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/TFMV/partskeeper/pkg/store"
	"github.com/TFMV/partskeeper/pkg/table"
	"github.com/TFMV/partskeeper/report"
)

const browseHelp = `Commands:
  n, next          next page
  p, prev          previous page
  first, last      first or last page
  g N              go to page N
  size N           change the page size
  sort COLUMN      cycle the sort on COLUMN (asc, desc, none)
  /TERM            search; a bare / clears the search
  x N              toggle selection of row N on this page
  all              select or deselect every row
  h, help          show this help
  q, quit          leave
`

func newBrowseCommand(a *app) *cobra.Command {
	var tf tableFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the inventory interactively",
		Long: `Browse reads commands from stdin, one per line, and prints the page after
every change. Searches are debounced by table.search_debounce.

` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if d.isParts() {
				return browse(a, cmd, partsSource(d.parts), tf.forParts(), of)
			}
			return browse(a, cmd, recordsSource(d), tf, of)
		},
	}
	addTableFlags(cmd, &tf)
	addOutputFlags(cmd, &of)
	return cmd
}

// browser renders every published view. Renders come from the command loop
// and from the search debouncer, so writes are serialized.
type browser[T any] struct {
	tbl  *table.Table[T]
	gen  report.ReportGenerator
	opts report.Options

	mu  sync.Mutex
	out io.Writer
}

func (b *browser[T]) render(v table.View[T]) {
	data, err := b.gen.GeneratePageReport(report.Build(b.tbl.Columns(), v, b.opts))
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		fmt.Fprintf(b.out, "error: %v\n", err)
		return
	}
	b.out.Write(data)
	fmt.Fprintln(b.out)
}

func (b *browser[T]) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func browse[T any](a *app, cmd *cobra.Command, src source[T], tf tableFlags, of outputFlags) error {
	if of.output != "" {
		return fmt.Errorf("browse writes to stdout only")
	}
	bp, err := parseBreakpoint(of.breakpoint)
	if err != nil {
		return err
	}
	gen, err := report.NewGenerator(of.format)
	if err != nil {
		return err
	}

	state := store.New(table.View[T]{})
	tbl, err := buildTable(a, src, tf, state)
	if err != nil {
		return err
	}

	b := &browser[T]{
		tbl: tbl,
		gen: gen,
		opts: report.Options{
			Title:           of.title,
			Breakpoint:      bp,
			MaxVisiblePages: a.cfg.Table.MaxVisiblePages,
		},
		out: cmd.OutOrStdout(),
	}
	b.render(state.Get())
	unsubscribe := state.Subscribe(func(v, _ table.View[T]) { b.render(v) })
	defer unsubscribe()

	search, debouncer := tbl.DebouncedSearch(a.cfg.Table.SearchDebounce)
	defer debouncer.Stop()

	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		quit, err := b.exec(strings.TrimSpace(scanner.Text()), search)
		if err != nil {
			b.printf("error: %v\n", err)
		}
		if quit {
			break
		}
	}
	debouncer.Flush()
	return scanner.Err()
}

// exec runs one browse command and reports whether the session ends.
func (b *browser[T]) exec(line string, search func(string)) (bool, error) {
	if line == "" {
		return false, nil
	}
	if strings.HasPrefix(line, "/") {
		search(strings.TrimSpace(line[1:]))
		return false, nil
	}

	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	v := b.tbl.View()
	switch verb {
	case "q", "quit":
		return true, nil
	case "h", "help":
		b.printf("%s", browseHelp)
	case "n", "next":
		b.tbl.HandlePageChange(v.Pagination.CurrentPage + 1)
	case "p", "prev":
		b.tbl.HandlePageChange(v.Pagination.CurrentPage - 1)
	case "first":
		b.tbl.HandlePageChange(1)
	case "last":
		b.tbl.HandlePageChange(v.Metadata.TotalPages)
	case "g":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("page %q is not a number", arg)
		}
		b.tbl.HandlePageChange(n)
	case "size":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return false, fmt.Errorf("page size %q must be a positive number", arg)
		}
		b.tbl.HandlePageSizeChange(n)
	case "sort":
		if arg == "" {
			return false, fmt.Errorf("sort needs a column")
		}
		b.tbl.HandleSort(arg)
	case "x":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(v.Page) {
			return false, fmt.Errorf("row %q is not on this page", arg)
		}
		item := v.Page[n-1]
		index := v.Metadata.StartIndex + n - 1
		b.tbl.HandleSelect(item, index, !b.tbl.IsSelected(item, index))
	case "all":
		b.tbl.HandleSelectAll(!b.tbl.IsAllSelected())
	default:
		return false, fmt.Errorf("unknown command %q, try help", verb)
	}
	return false, nil
}
