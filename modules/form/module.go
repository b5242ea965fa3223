// Package form implements the `form` block: input fields bound to state
// variables, with validation on submit.
//
//	```form
//	id: signup
//	title: Create your character
//	fields:
//	  - name: name
//	    var: $player.name
//	    required: true
//	  - name: class
//	    type: select
//	    options: [warrior, mage]
//	  - name: age
//	    type: number
//	    min: 1
//	submit: Begin
//	on_submit: set $started true
//	```
package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
	"gopkg.in/yaml.v3"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Field types.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeCheckbox = "checkbox"
	TypeSelect   = "select"
)

// spec is the YAML shape of a form block body.
type spec struct {
	ID       string         `yaml:"id"`
	Title    string         `yaml:"title"`
	Fields   []fieldSpec    `yaml:"fields"`
	Submit   string         `yaml:"submit"`
	OnSubmit command.Script `yaml:"on_submit"`
}

type fieldSpec struct {
	Name     string   `yaml:"name"`
	Var      string   `yaml:"var"`
	Type     string   `yaml:"type"`
	Label    string   `yaml:"label"`
	Default  any      `yaml:"default"`
	Options  []string `yaml:"options"`
	Required bool     `yaml:"required"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
}

// Field is a validated form field.
type Field struct {
	Name     string
	Var      value.Path
	Type     string
	Label    string
	Default  value.Value
	Options  []string
	Required bool
	Min      *float64
	Max      *float64
}

// Block is a parsed form block.
type Block struct {
	ID          string
	Title       string
	SubmitLabel string
	Fields      []Field
	OnSubmit []command.Command
	src      *document.Block
}

// Refs implements registry.Block.
func (b *Block) Refs() []value.Path {
	out := make([]value.Path, 0, len(b.Fields))
	for _, f := range b.Fields {
		out = append(out, f.Var)
	}
	return append(out, document.Refs(b.Title)...)
}

// FormID implements registry.FormBlock.
func (b *Block) FormID() string { return b.ID }

// Parse decodes the YAML body. Unknown keys are rejected so that typos do
// not silently drop settings.
func Parse(ctx context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	var s spec
	dec := yaml.NewDecoder(bytes.NewReader([]byte(src.Body)))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, registry.Errorf(src.Range, "Invalid form", "%v", err)
	}

	b := &Block{ID: s.ID, Title: s.Title, SubmitLabel: s.Submit, src: src}
	if b.ID == "" && len(src.Info.Args) > 0 {
		b.ID = src.Info.Args[0]
	}
	if b.ID == "" {
		return nil, registry.Errorf(src.Range, "Invalid form", "a form needs an id, either as `id:` or after the fence label")
	}
	if len(s.Fields) == 0 {
		return nil, registry.Errorf(src.Range, "Invalid form", "form %q has no fields", b.ID)
	}

	seen := make(map[string]bool)
	for i, fs := range s.Fields {
		f, err := newField(fs)
		if err != nil {
			return nil, registry.Errorf(src.Range, "Invalid form field", "field %d: %v", i+1, err)
		}
		if seen[f.Name] {
			return nil, registry.Errorf(src.Range, "Invalid form field", "field %q is declared twice", f.Name)
		}
		seen[f.Name] = true
		for _, other := range b.Fields {
			if !shapesAgree(f.Var, other.Var) {
				return nil, registry.Errorf(src.Range, "Invalid form field", "fields %q and %q write overlapping variables %s and %s", other.Name, f.Name, other.Var, f.Var)
			}
		}
		b.Fields = append(b.Fields, f)
	}

	cmds, err := s.OnSubmit.Parse()
	if err != nil {
		return nil, registry.Errorf(src.Range, "Invalid on_submit", "%v", err)
	}
	b.OnSubmit = cmds

	ctxlog.FromContext(ctx).Debug("Parsed form block.", "id", b.ID, "fields", len(b.Fields))
	return b, nil
}

func newField(fs fieldSpec) (Field, error) {
	if fs.Name == "" {
		return Field{}, errors.New("missing name")
	}
	f := Field{
		Name:     fs.Name,
		Type:     fs.Type,
		Label:    fs.Label,
		Options:  fs.Options,
		Required: fs.Required,
		Min:      fs.Min,
		Max:      fs.Max,
	}
	if f.Type == "" {
		f.Type = TypeText
	}
	switch f.Type {
	case TypeText, TypeNumber, TypeCheckbox:
	case TypeSelect:
		if len(f.Options) == 0 {
			return Field{}, fmt.Errorf("select field %q has no options", f.Name)
		}
	default:
		return Field{}, fmt.Errorf("field %q has unknown type %q", f.Name, f.Type)
	}

	target := fs.Var
	if target == "" {
		target = "$" + fs.Name
	}
	p, err := value.ParsePath(target)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", f.Name, err)
	}
	f.Var = p

	if fs.Default != nil {
		def, err := value.FromGo(fs.Default)
		if err != nil {
			return Field{}, fmt.Errorf("field %q default: %w", f.Name, err)
		}
		if def, err = f.coerce(def.Go()); err != nil {
			return Field{}, fmt.Errorf("field %q default: %w", f.Name, err)
		}
		f.Default = def
	}
	return f, nil
}

// Render shows the form with each field's current value, or its default
// while the variable is unset.
func Render(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*Block)
	node := &render.Form{
		ID:     b.ID,
		Title:  p.Interpolate(b.Title),
		Submit: b.SubmitLabel,
		Source: b.src.Range,
	}
	for _, f := range b.Fields {
		v := p.Lookup(f.Var)
		if v.IsNull() {
			v = f.Default
		}
		node.Fields = append(node.Fields, render.Field{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Var:      f.Var.String(),
			Value:    v,
			Options:  f.Options,
			Required: f.Required,
			Min:      f.Min,
			Max:      f.Max,
		})
	}
	return []render.Node{node}, nil
}

// Submit validates every field and checks every target variable first, and
// writes nothing unless all of them pass. Fields missing from the submission
// keep their current value, or take their default.
func (b *Block) Submit(ctx context.Context, p registry.Pass, fields map[string]any) error {
	for name := range fields {
		if _, ok := b.field(name); !ok {
			return &ValidationError{Form: b.ID, Problems: []FieldProblem{{Field: name, Reason: "no such field"}}}
		}
	}

	values := make([]value.Value, len(b.Fields))
	var problems []FieldProblem
	for i, f := range b.Fields {
		var v value.Value
		var err error
		if raw, ok := fields[f.Name]; ok {
			v, err = f.coerce(raw)
		} else {
			v = p.Lookup(f.Var)
			if v.IsNull() {
				v = f.Default
			}
		}
		if err == nil {
			err = f.check(v)
		}
		if err == nil {
			err = p.CanSet(f.Var)
		}
		if err != nil {
			problems = append(problems, FieldProblem{Field: f.Name, Reason: err.Error()})
			continue
		}
		values[i] = v
	}
	if len(problems) > 0 {
		return &ValidationError{Form: b.ID, Problems: problems}
	}

	for i, f := range b.Fields {
		if values[i].IsNull() && !f.Required {
			continue
		}
		if err := p.Set(f.Var, values[i]); err != nil {
			return fmt.Errorf("form %q field %q: %w", b.ID, f.Name, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Form submitted.", "id", b.ID)
	if err := p.Exec(b.OnSubmit); err != nil {
		return fmt.Errorf("form %q on_submit: %w", b.ID, err)
	}
	return nil
}

// Change validates and writes a single field. Required fields may be
// cleared here; the requirement is enforced on submit.
func (b *Block) Change(_ context.Context, p registry.Pass, name string, raw any) error {
	f, ok := b.field(name)
	if !ok {
		return &ValidationError{Form: b.ID, Problems: []FieldProblem{{Field: name, Reason: "no such field"}}}
	}
	v, err := f.coerce(raw)
	if err == nil && !v.IsNull() {
		err = f.checkRange(v)
	}
	if err != nil {
		return &ValidationError{Form: b.ID, Problems: []FieldProblem{{Field: name, Reason: err.Error()}}}
	}
	return p.Set(f.Var, v)
}

// shapesAgree reports whether two field targets can be written one after
// the other without either write invalidating the other. One may not be a
// prefix of the other, and where they share a prefix the next segments must
// ask for the same container kind.
func shapesAgree(a, b value.Path) bool {
	if a.Overlaps(b) {
		return false
	}
	if a.Root != b.Root {
		return true
	}
	for i := 0; i < len(a.Segments) && i < len(b.Segments); i++ {
		sa, sb := a.Segments[i], b.Segments[i]
		if sa.IsIndex() != sb.IsIndex() {
			return false
		}
		if sa != sb {
			return true
		}
	}
	return true
}

func (b *Block) field(name string) (Field, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:    registry.KindForm,
		Guarded: true,
		Parse:   Parse,
		Render:  Render,
	})
}
