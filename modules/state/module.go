// Package state implements the `state` block: literal default values for
// top-level variables, written as HCL attributes.
//
//	```state
//	$hp = 10
//	player = { name = "Ada", inv = [] }
//	```
//
// The leading '$' on a name is optional. Defaults only fill variables that
// are not yet set, unless the fence carries the `overwrite` flag.
package state

import (
	"context"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Block is a parsed state block.
type Block struct {
	Vars      []registry.Default
	Overwrite bool
}

// Refs implements registry.Block. Defaults are literals and read nothing.
func (b *Block) Refs() []value.Path { return nil }

// Defaults implements registry.Initializer.
func (b *Block) Defaults() ([]registry.Default, bool) { return b.Vars, b.Overwrite }

// Parse reads the attribute list of a state block.
func Parse(ctx context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	b := &Block{Overwrite: src.Info.HasFlag("overwrite")}
	if v, ok := src.Info.Attr("overwrite"); ok {
		b.Overwrite = v == "true"
	}

	file, diags := hclsyntax.ParseConfig([]byte(stripDollars(src.Body)), src.Range.Filename, src.BodyRange.Start)
	if diags.HasErrors() {
		return nil, diags
	}
	body := file.Body.(*hclsyntax.Body)
	if len(body.Blocks) > 0 {
		return nil, registry.Errorf(body.Blocks[0].DefRange(), "Unexpected nested block",
			"state blocks only hold `name = value` assignments")
	}

	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, a := range attrs {
		v, d := literal(a.Expr)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		b.Vars = append(b.Vars, registry.Default{Name: a.Name, Value: v})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Parsed state block.", "vars", len(b.Vars), "overwrite", b.Overwrite)
	return b, nil
}

// literal converts an HCL expression to a Value. Object and tuple
// constructors are walked directly so that key order is kept; everything
// else is evaluated without variables, which rejects references.
func literal(e hclsyntax.Expression) (value.Value, hcl.Diagnostics) {
	switch e := e.(type) {
	case *hclsyntax.ObjectConsExpr:
		obj := value.NewObject()
		var diags hcl.Diagnostics
		for _, item := range e.Items {
			kv, d := item.KeyExpr.Value(nil)
			diags = append(diags, d...)
			if d.HasErrors() {
				continue
			}
			key, err := value.FromCty(kv)
			name, ok := key.AsString()
			if err != nil || !ok {
				diags = append(diags, registry.Errorf(item.KeyExpr.Range(), "Invalid object key", "object keys must be strings")...)
				continue
			}
			v, d := literal(item.ValueExpr)
			diags = append(diags, d...)
			obj.Set(name, v)
		}
		return value.FromObject(obj), diags
	case *hclsyntax.TupleConsExpr:
		arr := value.NewArray()
		var diags hcl.Diagnostics
		for _, x := range e.Exprs {
			v, d := literal(x)
			diags = append(diags, d...)
			arr.Append(v)
		}
		return value.FromArray(arr), diags
	}

	cv, diags := e.Value(nil)
	if diags.HasErrors() {
		return value.Null(), registry.Errorf(e.Range(), "Invalid default value",
			"state defaults must be literal values, not references or function calls")
	}
	v, err := value.FromCty(cv)
	if err != nil {
		return value.Null(), registry.Errorf(e.Range(), "Invalid default value", "%v", err)
	}
	return v, nil
}

// stripDollars removes a leading '$' from each assignment so that
// `$hp = 10` reads as the HCL attribute `hp = 10`. Column positions shift by
// one on such lines, which is acceptable for diagnostics.
func stripDollars(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " \t")
		if strings.HasPrefix(trimmed, "$") {
			lines[i] = l[:len(l)-len(trimmed)] + trimmed[1:]
		}
	}
	return strings.Join(lines, "\n")
}

// Render implements registry.RenderFunc. State blocks produce no output.
func Render(context.Context, registry.Block, registry.Pass) ([]render.Node, hcl.Diagnostics) {
	return nil, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:   registry.KindState,
		Parse:  Parse,
		Render: Render,
	})
}
