package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/storefront/cart"
	"bookstore-catalog/internal/storefront/client"
	"bookstore-catalog/internal/storefront/view"

	"github.com/shopspring/decimal"
)

const helpText = `Commands:
  list                 reload the current page
  page N | next | prev move between pages
  size N               books per page
  category NAME        filter by category ("All" for every category)
  categories           list categories
  sort                 toggle title order (asc/desc)
  show ID              book details
  add ID | remove ID   change the cart
  cart                 cart contents and total
  create | edit ID     enter a book field by field
  delete ID            delete a book
  help | quit`

// shell is the line-oriented storefront. It owns the cart; the controller
// owns the list state.
type shell struct {
	ctl  *view.Controller
	cart *cart.Cart
	in   *bufio.Scanner
	out  io.Writer
}

func newShell(ctl *view.Controller, c *cart.Cart, in *bufio.Scanner, out io.Writer) *shell {
	return &shell{ctl: ctl, cart: c, in: in, out: out}
}

func (s *shell) run(ctx context.Context) {
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() || ctx.Err() != nil {
			fmt.Fprintln(s.out)
			return
		}
		if quit := s.exec(ctx, s.in.Text()); quit {
			return
		}
	}
}

// exec runs one command line and reports whether the session should end.
func (s *shell) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "list", "ls":
		err = s.listAfter(s.ctl.Refresh(ctx))
	case "page":
		var n int
		if n, err = intArg(arg); err == nil {
			err = s.listAfter(s.ctl.SetPage(ctx, n))
		}
	case "next", "n":
		if !s.ctl.State().CanNext() {
			fmt.Fprintln(s.out, "Already on the last page.")
			break
		}
		err = s.listAfter(s.ctl.NextPage(ctx))
	case "prev", "p":
		if !s.ctl.State().CanPrev() {
			fmt.Fprintln(s.out, "Already on the first page.")
			break
		}
		err = s.listAfter(s.ctl.PrevPage(ctx))
	case "size":
		var n int
		if n, err = intArg(arg); err == nil {
			err = s.listAfter(s.ctl.SetPageSize(ctx, n))
		}
	case "category", "cat":
		err = s.listAfter(s.ctl.SetCategory(ctx, arg))
	case "categories", "cats":
		if err = s.ctl.LoadCategories(ctx); err == nil {
			fmt.Fprintln(s.out, strings.Join(s.ctl.State().Categories, ", "))
		}
	case "sort":
		order := s.ctl.ToggleSort()
		fmt.Fprintf(s.out, "Sorted by title, %s.\n", order)
		s.printPage()
	case "show":
		err = s.show(ctx, arg)
	case "add":
		err = s.add(ctx, arg)
	case "remove", "rm":
		var id int64
		if id, err = idArg(arg); err == nil {
			s.cart.Remove(id)
			s.printCart()
		}
	case "cart":
		s.printCart()
	case "create":
		err = s.create(ctx)
	case "edit":
		err = s.edit(ctx, arg)
	case "delete", "del":
		var id int64
		if id, err = idArg(arg); err == nil {
			if err = s.ctl.Delete(ctx, id); err == nil {
				fmt.Fprintf(s.out, "Deleted book %d.\n", id)
				s.printPage()
			}
		}
	default:
		err = fmt.Errorf("unknown command %q, type 'help'", cmd)
	}

	if err != nil {
		s.printError(err)
	}
	return false
}

func (s *shell) listAfter(err error) error {
	if err != nil && !errors.Is(err, view.ErrSuperseded) {
		return err
	}
	s.printPage()
	return nil
}

func (s *shell) show(ctx context.Context, arg string) error {
	id, err := idArg(arg)
	if err != nil {
		return err
	}
	b, err := s.ctl.Show(ctx, id)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", b.BookID)
	fmt.Fprintf(tw, "Title\t%s\n", b.Title)
	fmt.Fprintf(tw, "Author\t%s\n", b.Author)
	fmt.Fprintf(tw, "Publisher\t%s\n", b.Publisher)
	fmt.Fprintf(tw, "ISBN\t%s\n", b.ISBN)
	fmt.Fprintf(tw, "Category\t%s\n", b.Category)
	fmt.Fprintf(tw, "Classification\t%s\n", b.Classification)
	fmt.Fprintf(tw, "Pages\t%d\n", b.PageCount)
	fmt.Fprintf(tw, "Price\t%s\n", b.Price.StringFixed(2))
	return tw.Flush()
}

// add prefers the copy already on screen and only asks the API for ids
// outside the current page.
func (s *shell) add(ctx context.Context, arg string) error {
	id, err := idArg(arg)
	if err != nil {
		return err
	}
	var book *model.Book
	for _, b := range s.ctl.State().Books {
		if b.BookID == id {
			b := b
			book = &b
			break
		}
	}
	if book == nil {
		if book, err = s.ctl.Show(ctx, id); err != nil {
			return err
		}
	}
	s.cart.Add(*book)
	fmt.Fprintf(s.out, "Added %q (x%d).\n", book.Title, s.cart.Quantity(id))
	return nil
}

func (s *shell) create(ctx context.Context) error {
	req, ok := s.promptBook(model.BookRequest{})
	if !ok {
		return nil
	}
	b, err := s.ctl.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created book %d.\n", b.BookID)
	s.printPage()
	return nil
}

func (s *shell) edit(ctx context.Context, arg string) error {
	id, err := idArg(arg)
	if err != nil {
		return err
	}
	current, err := s.ctl.Show(ctx, id)
	if err != nil {
		return err
	}
	req, ok := s.promptBook(current.ToRequest())
	if !ok {
		return nil
	}
	if _, err := s.ctl.Update(ctx, id, req); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated book %d.\n", id)
	s.printPage()
	return nil
}

// promptBook asks for every field; an empty answer keeps the value shown in
// brackets. ok is false when input ends mid-form.
func (s *shell) promptBook(def model.BookRequest) (model.BookRequest, bool) {
	req := def
	text := []struct {
		label string
		dst   *string
	}{
		{"Title", &req.Title},
		{"Author", &req.Author},
		{"Publisher", &req.Publisher},
		{"ISBN", &req.ISBN},
		{"Category", &req.Category},
		{"Classification", &req.Classification},
	}
	for _, f := range text {
		v, ok := s.ask(f.label, *f.dst)
		if !ok {
			return req, false
		}
		*f.dst = v
	}

	for {
		v, ok := s.ask("Pages", strconv.Itoa(req.PageCount))
		if !ok {
			return req, false
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			req.PageCount = n
			break
		}
		fmt.Fprintln(s.out, "  pages must be a whole number")
	}
	for {
		v, ok := s.ask("Price", req.Price.StringFixed(2))
		if !ok {
			return req, false
		}
		p, err := decimal.NewFromString(v)
		if err == nil {
			req.Price = p
			break
		}
		fmt.Fprintln(s.out, "  price must be a number like 12.50")
	}
	req.Normalize()
	return req, true
}

func (s *shell) ask(label, def string) (string, bool) {
	fmt.Fprintf(s.out, "  %s [%s]: ", label, def)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	if v := strings.TrimSpace(s.in.Text()); v != "" {
		return v, true
	}
	return def, true
}

func (s *shell) printPage() {
	st := s.ctl.State()
	fmt.Fprintf(s.out, "Page %d of %d, %d book(s), category %s, sort %s\n",
		st.Page, st.TotalPages(), st.TotalBooks, st.Category, st.Sort)
	if len(st.Books) == 0 {
		fmt.Fprintln(s.out, "  (no books)")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE")
	for _, b := range st.Books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.BookID, b.Title, b.Author, b.Category, b.Price.StringFixed(2))
	}
	tw.Flush()
}

func (s *shell) printCart() {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "Cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", l.BookID, l.Title, l.Quantity, l.Price.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	tw.Flush()
	sum := s.cart.Summary()
	fmt.Fprintf(s.out, "Items: %d  Total: %s\n", sum.TotalItems, sum.TotalCost.StringFixed(2))
}

func (s *shell) printError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(s.out, "error: %s\n", apiErr.Message)
		keys := make([]string, 0, len(apiErr.Details))
		for k := range apiErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(s.out, "  %s: %v\n", k, apiErr.Details[k])
		}
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func intArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", arg)
	}
	return n, nil
}

func idArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("expected a book id, got %q", arg)
	}
	return id, nil
}
