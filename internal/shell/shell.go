// Package shell is a line-oriented front end for the client stores.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/msomdec/shopfront/internal/auth"
	"github.com/msomdec/shopfront/internal/cart"
	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/theme"
	"github.com/shopspring/decimal"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

const helpText = `commands:
  login <email> <password>
  register <email> <password> <name...>
  logout
  whoami
  add <id> <price> <name...>
  qty <id> <n>
  rm <id>
  clear
  cart
  total
  count
  theme [light|dark]
  toggle
  help
  quit
`

// Shell runs commands against one cart and theme store. Auth commands use
// the controller attached to the context passed to Run or Exec.
type Shell struct {
	cart   *cart.Store
	theme  *theme.Store
	out    io.Writer
	logger *slog.Logger
}

// New creates a Shell writing to out.
func New(c *cart.Store, t *theme.Store, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{cart: c, theme: t, out: out, logger: logger}
}

// Run reads commands from in until EOF, quit or ctx is done. Command
// errors are printed and do not stop the loop. A cancelled ctx returns
// ctx.Err() even while waiting for input.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			err := s.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			s.prompt()
		}
	}
}

func (s *Shell) prompt() {
	fmt.Fprintf(s.out, "[%s] > ", s.theme.Current())
}

// Exec runs a single command line. Blank lines are ignored.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "login":
		return s.login(ctx, args)
	case "register":
		return s.register(ctx, args)
	case "logout":
		return s.logout(ctx)
	case "whoami":
		return s.whoami(ctx)
	case "add":
		return s.add(args)
	case "qty":
		return s.qty(args)
	case "rm":
		if len(args) != 1 {
			return usage("rm <id>")
		}
		s.cart.RemoveItem(args[0])
		return nil
	case "clear":
		s.cart.Clear()
		return nil
	case "cart":
		s.printCart()
		return nil
	case "total":
		fmt.Fprintln(s.out, s.cart.Total().StringFixed(2))
		return nil
	case "count":
		fmt.Fprintln(s.out, s.cart.ItemCount())
		return nil
	case "theme":
		return s.setTheme(ctx, args)
	case "toggle":
		fmt.Fprintln(s.out, s.theme.Toggle(ctx))
		return nil
	case "help":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func usage(form string) error {
	return fmt.Errorf("%w: usage: %s", domain.ErrInvalidInput, form)
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login <email> <password>")
	}
	c := auth.FromContext(ctx)
	if err := c.Login(ctx, domain.Credentials{Email: args[0], Password: args[1]}); err != nil {
		if msg := c.Error(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	s.greet(c)
	return nil
}

func (s *Shell) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("register <email> <password> <name...>")
	}
	c := auth.FromContext(ctx)
	data := domain.RegisterData{Email: args[0], Password: args[1], Name: strings.Join(args[2:], " ")}
	if err := c.Register(ctx, data); err != nil {
		if msg := c.Error(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	s.greet(c)
	return nil
}

func (s *Shell) greet(c *auth.Controller) {
	if u := c.Session().User(); u != nil {
		fmt.Fprintf(s.out, "signed in as %s <%s>\n", u.Name, u.Email)
	}
}

func (s *Shell) logout(ctx context.Context) error {
	c := auth.FromContext(ctx)
	c.Logout(ctx)
	if c.Session().IsAuthenticated() {
		return errors.New("logout failed; still signed in")
	}
	fmt.Fprintln(s.out, "signed out")
	return nil
}

func (s *Shell) whoami(ctx context.Context) error {
	sess := auth.FromContext(ctx).Session()
	switch u := sess.User(); {
	case u != nil:
		fmt.Fprintf(s.out, "%s <%s>\n", u.Name, u.Email)
	case sess.IsAuthenticated():
		fmt.Fprintln(s.out, "signed in (profile unavailable)")
	default:
		fmt.Fprintln(s.out, "not signed in")
	}
	return nil
}

func (s *Shell) add(args []string) error {
	if len(args) < 3 {
		return usage("add <id> <price> <name...>")
	}
	price, err := decimal.NewFromString(args[1])
	if err != nil || price.IsNegative() {
		return fmt.Errorf("%w: invalid price %q", domain.ErrInvalidInput, args[1])
	}
	s.cart.AddItem(domain.Product{ID: args[0], Name: strings.Join(args[2:], " "), Price: price})
	return nil
}

func (s *Shell) qty(args []string) error {
	if len(args) != 2 {
		return usage("qty <id> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: invalid quantity %q", domain.ErrInvalidInput, args[1])
	}
	s.cart.UpdateQuantity(args[0], n)
	return nil
}

func (s *Shell) printCart() {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "cart is empty")
		return
	}
	for _, li := range items {
		fmt.Fprintf(s.out, "%-8s %-24s %3d x %8s = %8s\n",
			li.ID, li.Name, li.Quantity, li.Price.StringFixed(2), li.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(s.out, "total: %s (%d items)\n", s.cart.Total().StringFixed(2), s.cart.ItemCount())
}

func (s *Shell) setTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, s.theme.Current())
		return nil
	}
	t, err := domain.ParseTheme(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	if err := s.theme.Set(ctx, t); err != nil {
		return err
	}
	s.logger.Debug("theme changed", "theme", t)
	return nil
}
