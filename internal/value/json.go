package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MarshalJSON encodes v, keeping Object keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes JSON into v, keeping Object keys in document order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out, err := readJSON(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("value: trailing data after JSON value")
	}
	*v = out
	return nil
}

// MarshalJSON encodes the Object in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return FromObject(o).MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, replacing the receiver's contents.
func (o *Object) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	src := v.AsObject()
	if src == nil {
		return fmt.Errorf("value: expected JSON object, got %s", v.Kind())
	}
	*o = *src
	return nil
}

// ParseJSON decodes a single JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	var v Value
	err := v.UnmarshalJSON(data)
	return v, err
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool, KindNumber, KindString:
		b, err := json.Marshal(v.Go())
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindObject:
		buf.WriteByte('{')
		var err error
		first := true
		v.obj.Range(func(k string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			err = writeJSON(buf, item)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}

func readJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := kt.(string)
				if !ok {
					return Null(), fmt.Errorf("value: expected object key, got %v", kt)
				}
				item, err := readJSON(dec)
				if err != nil {
					return Null(), err
				}
				obj.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), err
			}
			return FromObject(obj), nil
		case '[':
			arr := NewArray()
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return Null(), err
				}
				arr.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), err
			}
			return FromArray(arr), nil
		}
	}
	return Null(), fmt.Errorf("value: unexpected JSON token %v", tok)
}
