package value

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// FromGo converts plain Go data (as produced by YAML or JSON decoders, or
// supplied by a host) into a Value.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(t), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case []any:
		arr := NewArray()
		for i, item := range t {
			v, err := FromGo(item)
			if err != nil {
				return Null(), fmt.Errorf("index %d: %w", i, err)
			}
			arr.Append(v)
		}
		return FromArray(arr), nil
	case []string:
		arr := NewArray()
		for _, item := range t {
			arr.Append(String(item))
		}
		return FromArray(arr), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, v)
		}
		return FromObject(obj), nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[fmt.Sprint(k)] = v
		}
		return FromGo(m)
	default:
		return Null(), fmt.Errorf("unsupported Go type %T", x)
	}
}

// Go converts v back into plain Go data. Objects become map[string]any, so
// key order is lost; use the Object API when order matters.
func (v Value) Go() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		v.obj.Range(func(k string, item Value) bool {
			m[k] = item.Go()
			return true
		})
		return m
	case KindArray:
		out := make([]any, 0, v.arr.Len())
		for _, item := range v.arr.items {
			out = append(out, item.Go())
		}
		return out
	default:
		return nil
	}
}

// FromCty converts a known cty.Value into a Value. Null and unknown values
// become null; object and map attributes are ordered by name, as cty
// iterates them.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return Null(), nil
	}
	v, _ = v.Unmark()
	ty := v.Type()
	switch {
	case ty == cty.String:
		return String(v.AsString()), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return Number(f), nil
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty.IsObjectType() || ty.IsMapType():
		obj := NewObject()
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			item, err := FromCty(ev)
			if err != nil {
				return Null(), fmt.Errorf("attribute %q: %w", k.AsString(), err)
			}
			obj.Set(k.AsString(), item)
		}
		return FromObject(obj), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		arr := NewArray()
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := FromCty(ev)
			if err != nil {
				return Null(), err
			}
			arr.Append(item)
		}
		return FromArray(arr), nil
	default:
		return Null(), fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}
