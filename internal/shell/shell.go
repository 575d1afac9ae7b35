// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/i18n"
	"github.com/toeirei/usercrud/internal/logging"
	"github.com/toeirei/usercrud/internal/model"
)

// errInterrupted ends the loop when the context is cancelled while waiting.
var errInterrupted = errors.New("shell: interrupted")

const clearSequence = "\033[H\033[2J"

// Shell is the interactive menu loop. It owns no resources: the store is
// opened and closed by the caller.
type Shell struct {
	store db.Store
	in    io.Reader
	out   io.Writer
	r     *lipgloss.Renderer
	clear bool

	lines <-chan string
}

// Option configures a Shell.
type Option func(*Shell)

// WithRenderer sets the renderer used for styled output.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(s *Shell) { s.r = r }
}

// WithClearScreen enables clearing the terminal before each menu.
func WithClearScreen(on bool) Option {
	return func(s *Shell) { s.clear = on }
}

// New returns a shell reading from in and writing to out.
func New(store db.Store, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{store: store, in: in, out: out}
	for _, o := range opts {
		o(s)
	}
	if s.r == nil {
		s.r = NewRenderer(out, ColorAuto)
	}
	return s
}

// Run shows the menu until the user exits, input ends, or ctx is cancelled.
// Cancellation prints the interrupt notice and returns nil.
func (s *Shell) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(s.in, done)

	for {
		s.clearScreen()
		choice, err := s.menu(ctx)
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.create(ctx)
		case "2":
			err = s.get(ctx)
		case "3":
			err = s.list(ctx)
		case "4":
			err = s.update(ctx)
		case "5":
			err = s.remove(ctx)
		case "0":
			s.println(TagSuccess, i18n.T("shell.exiting"))
			return nil
		default:
			s.println(TagError, i18n.T("shell.invalid_option"))
			err = s.pause(ctx)
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// readLines feeds input lines into a channel until in is exhausted or done
// is closed. The channel is closed on end of input.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			logging.Warnf("shell: reading input: %v", err)
		}
	}()
	return ch
}

func (s *Shell) finish(err error) error {
	switch {
	case errors.Is(err, errInterrupted):
		fmt.Fprintln(s.out)
		s.println(TagWarning, i18n.T("shell.interrupted"))
		s.println(TagInfo, i18n.T("shell.shutting_down"))
		s.println(TagSuccess, i18n.T("shell.shutdown_done"))
		return nil
	case errors.Is(err, io.EOF):
		fmt.Fprintln(s.out)
		s.println(TagSuccess, i18n.T("shell.exiting"))
		return nil
	default:
		return err
	}
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", errInterrupted
	}
	select {
	case <-ctx.Done():
		return "", errInterrupted
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *Shell) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(s.out, Paint(s.r, TagInfo, text))
	return s.readLine(ctx)
}

func (s *Shell) println(tag Tag, text string) {
	fmt.Fprintln(s.out, Paint(s.r, tag, text))
}

func (s *Shell) clearScreen() {
	if s.clear {
		fmt.Fprint(s.out, clearSequence)
	}
}

func (s *Shell) header(title string) {
	rule := strings.Repeat("=", 50)
	s.println(TagTitle, rule)
	pad := (50 - lipgloss.Width(title)) / 2
	if pad < 0 {
		pad = 0
	}
	s.println(TagTitle, strings.Repeat(" ", pad)+title)
	s.println(TagTitle, rule)
}

func (s *Shell) menu(ctx context.Context) (string, error) {
	s.header(i18n.T("shell.title"))
	for _, key := range []string{"create", "get", "list", "update", "delete"} {
		s.println(TagHighlight, i18n.T("shell.menu."+key))
	}
	s.println(TagWarning, i18n.T("shell.menu.exit"))
	s.println(TagTitle, strings.Repeat("=", 50))
	return s.prompt(ctx, i18n.T("shell.menu.prompt"))
}

func (s *Shell) pause(ctx context.Context) error {
	_, err := s.prompt(ctx, "\n"+i18n.T("shell.press_enter"))
	return err
}

// readRequired re-prompts until a non-empty value is entered.
func (s *Shell) readRequired(ctx context.Context, text string) (string, error) {
	for {
		v, err := s.prompt(ctx, text)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		s.println(TagError, i18n.T("field.required"))
	}
}

// readID re-prompts until the input parses as an integer id.
func (s *Shell) readID(ctx context.Context, text string) (int64, error) {
	for {
		v, err := s.prompt(ctx, text)
		if err != nil {
			return 0, err
		}
		id, perr := strconv.ParseInt(v, 10, 64)
		if perr == nil {
			return id, nil
		}
		s.println(TagError, i18n.T("invalid_id"))
	}
}

// readAge returns nil for blank input and re-prompts on non-numeric input.
func (s *Shell) readAge(ctx context.Context, text string) (*int, error) {
	for {
		v, err := s.prompt(ctx, text)
		if err != nil {
			return nil, err
		}
		if v == "" {
			return nil, nil
		}
		age, perr := strconv.Atoi(v)
		if perr == nil {
			return &age, nil
		}
		s.println(TagError, i18n.T("invalid_age"))
	}
}

func (s *Shell) printUser(u *model.User) {
	s.field(i18n.T("field.id"), strconv.FormatInt(u.ID, 10))
	s.field(i18n.T("field.name"), u.Name)
	s.field(i18n.T("field.email"), u.Email)
	s.field(i18n.T("field.age"), u.AgeString())
}

func (s *Shell) field(label, value string) {
	fmt.Fprintln(s.out, Paint(s.r, TagInfo, label)+value)
}

// interrupted turns a store error caused by cancellation into errInterrupted.
func interrupted(ctx context.Context) error {
	if ctx.Err() != nil {
		return errInterrupted
	}
	return nil
}

func (s *Shell) create(ctx context.Context) error {
	s.clearScreen()
	s.header(i18n.T("create.title"))

	name, err := s.readRequired(ctx, i18n.T("create.prompt_name"))
	if err != nil {
		return err
	}
	email, err := s.readRequired(ctx, i18n.T("create.prompt_email"))
	if err != nil {
		return err
	}
	age, err := s.readAge(ctx, i18n.T("create.prompt_age"))
	if err != nil {
		return err
	}

	id, err := s.store.Create(ctx, model.NewUser{Name: name, Email: email, Age: age})
	if err != nil {
		if ierr := interrupted(ctx); ierr != nil {
			return ierr
		}
		s.println(TagError, "\n"+i18n.T("create.failed"))
	} else {
		s.println(TagSuccess, "\n"+i18n.T("create.success", id))
	}
	return s.pause(ctx)
}

// lookup asks for an id and fetches the user. A nil user with a nil error
// means the message has already been printed.
func (s *Shell) lookup(ctx context.Context, promptKey string) (*model.User, error) {
	id, err := s.readID(ctx, i18n.T(promptKey))
	if err != nil {
		return nil, err
	}
	u, err := s.store.Get(ctx, id)
	if err != nil {
		if ierr := interrupted(ctx); ierr != nil {
			return nil, ierr
		}
		s.println(TagError, "\n"+i18n.T("query.failed"))
		return nil, nil
	}
	if u == nil {
		s.println(TagError, "\n"+i18n.T("not_found"))
	}
	return u, nil
}

func (s *Shell) get(ctx context.Context) error {
	s.clearScreen()
	s.header(i18n.T("get.title"))

	u, err := s.lookup(ctx, "get.prompt_id")
	if err != nil {
		return err
	}
	if u != nil {
		s.println(TagSuccess, "\n"+i18n.T("get.found"))
		s.printUser(u)
	}
	return s.pause(ctx)
}

func (s *Shell) list(ctx context.Context) error {
	s.clearScreen()
	s.header(i18n.T("list.title"))

	users, err := s.store.List(ctx)
	switch {
	case err != nil:
		if ierr := interrupted(ctx); ierr != nil {
			return ierr
		}
		s.println(TagError, "\n"+i18n.T("list.failed"))
	case len(users) == 0:
		s.println(TagWarning, "\n"+i18n.T("list.empty"))
	default:
		fmt.Fprintln(s.out)
		for i := range users {
			s.println(TagHighlight, i18n.T("list.item"))
			s.printUser(&users[i])
			s.println(TagHighlight, strings.Repeat("-", 30))
		}
		s.println(TagSuccess, "\n"+i18n.T("list.total", len(users)))
	}
	return s.pause(ctx)
}

func (s *Shell) update(ctx context.Context) error {
	s.clearScreen()
	s.header(i18n.T("update.title"))

	u, err := s.lookup(ctx, "update.prompt_id")
	if err != nil {
		return err
	}
	if u == nil {
		return s.pause(ctx)
	}

	s.println(TagInfo, "\n"+i18n.T("update.current"))
	s.printUser(u)
	s.println(TagWarning, "\n"+i18n.T("update.hint"))

	var patch model.UserPatch
	name, err := s.prompt(ctx, i18n.T("update.prompt_name"))
	if err != nil {
		return err
	}
	if name != "" {
		patch.Name = &name
	}
	email, err := s.prompt(ctx, i18n.T("update.prompt_email"))
	if err != nil {
		return err
	}
	if email != "" {
		patch.Email = &email
	}
	if patch.Age, err = s.readAge(ctx, i18n.T("update.prompt_age")); err != nil {
		return err
	}

	changed, err := s.store.Update(ctx, u.ID, patch)
	switch {
	case err != nil:
		if ierr := interrupted(ctx); ierr != nil {
			return ierr
		}
		switch {
		case errors.Is(err, db.ErrDuplicate):
			s.println(TagError, "\n"+i18n.T("update.duplicate"))
		case errors.Is(err, db.ErrNotFound):
			s.println(TagError, "\n"+i18n.T("not_found"))
		default:
			s.println(TagError, "\n"+i18n.T("update.failed"))
		}
	case !changed:
		s.println(TagWarning, "\n"+i18n.T("update.no_changes"))
	default:
		s.println(TagSuccess, "\n"+i18n.T("update.success"))
	}
	return s.pause(ctx)
}

func (s *Shell) remove(ctx context.Context) error {
	s.clearScreen()
	s.header(i18n.T("delete.title"))

	u, err := s.lookup(ctx, "delete.prompt_id")
	if err != nil {
		return err
	}
	if u == nil {
		return s.pause(ctx)
	}

	s.println(TagWarning, "\n"+i18n.T("delete.found"))
	s.printUser(u)
	answer, err := s.prompt(ctx, "\n"+i18n.T("delete.confirm"))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, i18n.T("delete.yes")) {
		s.println(TagWarning, "\n"+i18n.T("delete.cancelled"))
		return s.pause(ctx)
	}

	if _, err := s.store.Delete(ctx, u.ID); err != nil {
		if ierr := interrupted(ctx); ierr != nil {
			return ierr
		}
		if errors.Is(err, db.ErrNotFound) {
			s.println(TagError, "\n"+i18n.T("not_found"))
		} else {
			s.println(TagError, "\n"+i18n.T("delete.failed"))
		}
	} else {
		s.println(TagSuccess, "\n"+i18n.T("delete.success"))
	}
	return s.pause(ctx)
}
