package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/engine"
	"github.com/vk/mdrun/internal/fsutil"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

const helpText = `Commands:
  render                          re-render the document
  go <anchor>                     activate the navigation choice for anchor
  field <form> <name> <value>     change one form field
  submit <form> [name=value ...]  submit a form
  anchors                         list the section anchors
  snapshot [file]                 print or write the state as JSON
  restore <file>                  replace the state with a JSON snapshot
  help                            show this help
  quit                            close the document and exit`

// session applies interactive commands to one loaded document.
type session struct {
	app  *App
	inst *engine.Instance
}

// handle runs one command line. Only failures of the host itself are
// returned; rejected input is reported to the user and the loop goes on.
func (s *session) handle(ctx context.Context, line string) (quit bool, err error) {
	args, err := splitArgs(line)
	if err != nil {
		s.printf("error: %v\n", err)
		return false, nil
	}
	if len(args) == 0 {
		return false, nil
	}
	ctxlog.FromContext(ctx).Debug("Command received.", "command", args[0], "args", len(args)-1)

	var tree *render.Tree
	switch cmd, rest := args[0], args[1:]; cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.printf("%s\n", helpText)
		return false, nil
	case "render", "r":
		tree, err = s.inst.Render(ctx)
	case "go", "nav":
		if len(rest) != 1 {
			return false, s.usage("go <anchor>")
		}
		tree, err = s.inst.ActivateNav(ctx, rest[0])
	case "field":
		if len(rest) != 3 {
			return false, s.usage("field <form> <name> <value>")
		}
		tree, err = s.inst.ChangeField(ctx, rest[0], rest[1], rest[2])
	case "submit":
		if len(rest) < 1 {
			return false, s.usage("submit <form> [name=value ...]")
		}
		fields, perr := parseFields(rest[1:])
		if perr != nil {
			s.printf("error: %v\n", perr)
			return false, nil
		}
		tree, err = s.inst.SubmitForm(ctx, rest[0], fields)
	case "anchors":
		s.app.view.Anchors(s.inst.Anchors(), s.inst.Anchor())
		return false, nil
	case "snapshot":
		return false, s.snapshot(rest)
	case "restore":
		if len(rest) != 1 {
			return false, s.usage("restore <file>")
		}
		err = s.restore(rest[0])
		if err == nil {
			tree, err = s.inst.Render(ctx)
		}
	default:
		s.printf("error: unknown command %q, try help\n", cmd)
		return false, nil
	}

	if err != nil {
		if errors.Is(err, engine.ErrClosed) {
			return false, err
		}
		ctxlog.FromContext(ctx).Debug("Command rejected.", "error", err, "invalid_input", errors.Is(err, registry.ErrInvalidInput))
		s.printf("error: %v\n", err)
		return false, nil
	}
	s.app.view.Tree(tree)
	return false, nil
}

func (s *session) usage(u string) error {
	s.printf("usage: %s\n", u)
	return nil
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.app.outW, format, args...)
}

func (s *session) snapshot(args []string) error {
	snap, err := s.inst.Snapshot()
	if err != nil {
		return err
	}
	data, err := snap.MarshalJSON()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		s.printf("%s\n", data)
		return nil
	}
	if err := fsutil.WriteFileAtomic(args[0], append(data, '\n'), 0o644); err != nil {
		s.printf("error: %v\n", err)
		return nil
	}
	s.printf("snapshot written to %s\n", args[0])
	return nil
}

func (s *session) restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	snap := value.NewObject()
	if err := snap.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return s.inst.LoadSnapshot(snap)
}

// parseFields turns name=value arguments into a submission. Values stay
// strings; the form coerces them to each field's type.
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, a := range args {
		name, v, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", a)
		}
		fields[name] = v
	}
	return fields, nil
}

// splitArgs splits a command line on spaces. Double-quoted arguments use Go
// string syntax and may contain spaces, as may the value after '=' when it
// is quoted.
func splitArgs(line string) ([]string, error) {
	var out []string
	rest := strings.TrimSpace(line)
	for rest != "" {
		var arg string
		prefix := ""
		if i := strings.Index(rest, "="); i > 0 && i+1 < len(rest) && rest[i+1] == '"' && !strings.ContainsAny(rest[:i], " \t") {
			prefix, rest = rest[:i+1], rest[i+1:]
		}
		if rest[0] == '"' {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("unterminated quote in %q", line)
			}
			arg, err = strconv.Unquote(q)
			if err != nil {
				return nil, err
			}
			rest = rest[len(q):]
		} else {
			end := strings.IndexAny(rest, " \t")
			if end < 0 {
				end = len(rest)
			}
			arg, rest = rest[:end], rest[end:]
		}
		out = append(out, prefix+arg)
		rest = strings.TrimLeft(rest, " \t")
	}
	return out, nil
}
