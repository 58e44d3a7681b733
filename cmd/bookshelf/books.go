package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/bookshelf/internal/app"
	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/catalog"
)

const (
	outputTable    = "table"
	outputJSON     = "json"
	outputYAML     = "yaml"
	outputMarkdown = "markdown"

	cardWordWrap = 80
)

func newListCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every book in the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withRuntime(func(rt *app.Runtime) error {
				if err := rt.Controller.Reload(cmd.Context()); err != nil {
					return errors.New(catalog.Message(err))
				}
				list := rt.Store.Snapshot().Books
				out := cmd.OutOrStdout()
				switch output {
				case outputJSON:
					return writeJSON(out, list)
				case outputYAML:
					return writeYAML(out, list)
				case outputTable:
					if len(list) == 0 {
						_, err := fmt.Fprintln(out, catalog.MsgEmpty)
						return err
					}
					_, err := fmt.Fprintln(out, renderBookTable(rt.Formatter, list))
					return err
				default:
					return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func newGetCmd(root *rootOptions) *cobra.Command {
	var (
		output string
		style  string
	)
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return root.withRuntime(func(rt *app.Runtime) error {
				book, err := rt.Client.GetBook(cmd.Context(), id)
				if err != nil {
					return errors.New(catalog.Message(err))
				}
				out := cmd.OutOrStdout()
				switch output {
				case outputJSON:
					return writeJSON(out, book)
				case outputYAML:
					return writeYAML(out, book)
				case outputMarkdown:
					card, err := renderCard(rt.Formatter, *book, style)
					if err != nil {
						return err
					}
					_, err = io.WriteString(out, card)
					return err
				default:
					return fmt.Errorf("unknown output format %q (want markdown, json or yaml)", output)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputMarkdown, "output format: markdown, json or yaml")
	cmd.Flags().StringVar(&style, "style", "auto", "markdown style: auto, dark, light, notty or ascii")
	return cmd
}

// bookFlags binds the form fields to command flags.
type bookFlags struct {
	form catalog.Form
}

func (b *bookFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&b.form.Title, "title", "", "book title")
	flags.StringVar(&b.form.Author, "author", "", "author name")
	flags.StringVar(&b.form.ISBN, "isbn", "", "ISBN (10 or 13 digits)")
	flags.StringVar(&b.form.Price, "price", "", "price in whole currency units")
	flags.StringVar(&b.form.PublishDate, "publish-date", "", "publish date (YYYY-MM-DD)")
	flags.StringVar(&b.form.Publisher, "publisher", "", "publisher name")
}

// overlay copies the flags the user actually set onto base.
func (b *bookFlags) overlay(cmd *cobra.Command, base catalog.Form) catalog.Form {
	flags := cmd.Flags()
	if flags.Changed("title") {
		base.Title = b.form.Title
	}
	if flags.Changed("author") {
		base.Author = b.form.Author
	}
	if flags.Changed("isbn") {
		base.ISBN = b.form.ISBN
	}
	if flags.Changed("price") {
		base.Price = b.form.Price
	}
	if flags.Changed("publish-date") {
		base.PublishDate = b.form.PublishDate
	}
	if flags.Changed("publisher") {
		base.Publisher = b.form.Publisher
	}
	return base
}

func newAddCmd(root *rootOptions) *cobra.Command {
	fields := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new book",
		Example: `  bookshelf add --title "Learning Go" --author "Jon Bodner" \
    --isbn 9781492077213 --price 42000 --publish-date 2021-03-02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withRuntime(func(rt *app.Runtime) error {
				return report(cmd, rt.Controller.Submit(cmd.Context(), fields.form))
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newUpdateCmd(root *rootOptions) *cobra.Command {
	fields := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing book",
		Long:  "Update an existing book. Fields without a flag keep their stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return root.withRuntime(func(rt *app.Runtime) error {
				current, err := rt.Controller.BeginEdit(cmd.Context(), id)
				if err != nil {
					return errors.New(catalog.Message(err))
				}
				defer rt.Controller.Cancel()
				return report(cmd, rt.Controller.Submit(cmd.Context(), fields.overlay(cmd, current)))
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newDeleteCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return root.withRuntime(func(rt *app.Runtime) error {
				if !yes {
					book, err := rt.Client.GetBook(cmd.Context(), id)
					if err != nil {
						return errors.New(catalog.Message(err))
					}
					ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), catalog.DeletePrompt(book.Title))
					if err != nil {
						return err
					}
					if !ok {
						_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return err
					}
				}
				return report(cmd, rt.Controller.Delete(cmd.Context(), id))
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")
	return cmd
}

// report prints a successful outcome or turns a failed one into an error.
func report(cmd *cobra.Command, outcome catalog.Outcome) error {
	if outcome.Failed() {
		if outcome.Field != "" {
			return fmt.Errorf("%s: %s", outcome.Field, outcome.Message)
		}
		return errors.New(outcome.Message)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
	return err
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func renderBookTable(f catalog.Formatter, list []books.Book) string {
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, append([]string{strconv.FormatInt(b.ID, 10)}, f.Row(b)...))
	}
	headers := append([]string{"ID"}, catalog.Columns...)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell.Bold(true)
			case col == 0 || col == 4:
				return cell.Align(lipgloss.Right)
			default:
				return cell
			}
		}).
		String()
}

func renderCard(f catalog.Formatter, b books.Book, style string) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", b.Title)
	fmt.Fprintf(&md, "*by %s*\n\n", b.Author)
	md.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&md, "| ID | %d |\n", b.ID)
	fmt.Fprintf(&md, "| ISBN | %s |\n", b.ISBN)
	fmt.Fprintf(&md, "| Price | %s |\n", f.Price(b.Price))
	fmt.Fprintf(&md, "| Published | %s |\n", f.Date(b))
	fmt.Fprintf(&md, "| Publisher | %s |\n", f.Publisher(b))
	if d := b.Detail; d != nil {
		if d.Edition != "" {
			fmt.Fprintf(&md, "| Edition | %s |\n", d.Edition)
		}
		if d.Language != "" {
			fmt.Fprintf(&md, "| Language | %s |\n", d.Language)
		}
		if d.PageCount > 0 {
			fmt.Fprintf(&md, "| Pages | %d |\n", d.PageCount)
		}
		if desc := strings.TrimSpace(d.Description); desc != "" {
			fmt.Fprintf(&md, "\n%s\n", desc)
		}
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(cardWordWrap))
	if err != nil {
		return "", fmt.Errorf("init markdown renderer: %w", err)
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return "", fmt.Errorf("render book card: %w", err)
	}
	return out, nil
}
