// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"math"
	"strconv"

	"github.com/juju/errors"
)

const (
	// dateTimeLayout is the compact ISO 8601 form XML-RPC mandates.
	dateTimeLayout = "20060102T15:04:05"

	// maxInt4 and minInt4 bound what fits in an <int> element; anything
	// wider is sent as <i8>.
	maxInt4 = math.MaxInt32
	minInt4 = math.MinInt32
)

// EncodeCall returns the <methodCall> document invoking method with
// the given positional arguments.
func EncodeCall(method string, args ...Value) ([]byte, error) {
	return encodeDocument(func(w *tokenWriter) {
		w.start("methodCall")
		w.element("methodName", method)
		w.start("params")
		for _, arg := range args {
			w.start("param")
			w.value(arg)
			w.end("param")
		}
		w.end("params")
		w.end("methodCall")
	})
}

// EncodeResponse returns the <methodResponse> document carrying v.
func EncodeResponse(v Value) ([]byte, error) {
	return encodeDocument(func(w *tokenWriter) {
		w.start("methodResponse")
		w.start("params")
		w.start("param")
		w.value(v)
		w.end("param")
		w.end("params")
		w.end("methodResponse")
	})
}

// EncodeFault returns the <methodResponse> document carrying f.
func EncodeFault(f *Fault) ([]byte, error) {
	return encodeDocument(func(w *tokenWriter) {
		w.start("methodResponse")
		w.start("fault")
		w.value(Struct(
			Member{Name: "faultCode", Value: Int(int64(f.Code))},
			Member{Name: "faultString", Value: String(f.Message)},
		))
		w.end("fault")
		w.end("methodResponse")
	})
}

func encodeDocument(body func(*tokenWriter)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	w := &tokenWriter{enc: xml.NewEncoder(&buf)}
	body(w)
	if w.err == nil {
		w.err = w.enc.Flush()
	}
	if w.err != nil {
		return nil, errors.Trace(w.err)
	}
	return buf.Bytes(), nil
}

// tokenWriter wraps an xml.Encoder, remembering the first error so that
// callers can emit a whole document and check once.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (w *tokenWriter) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *tokenWriter) start(name string) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}})
}

func (w *tokenWriter) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// element writes <name>text</name>. An empty text still produces both
// tags, which is how empty strings must appear on the wire.
func (w *tokenWriter) element(name, text string) {
	w.start(name)
	if text != "" {
		w.token(xml.CharData(text))
	}
	w.end(name)
}

// encodeFrame is one pending compound value on the encoder work stack.
// The cursor is -1 until the value's opening tags have been written.
type encodeFrame struct {
	value      Value
	cursor     int
	memberOpen bool
}

// value writes root wrapped in a <value> element. Nested arrays and
// structs are walked with an explicit stack so that the nesting depth
// of the payload never grows the goroutine stack.
func (w *tokenWriter) value(root Value) {
	stack := []*encodeFrame{{value: root, cursor: -1}}
	for len(stack) > 0 && w.err == nil {
		top := stack[len(stack)-1]
		v := top.value

		if top.cursor < 0 {
			w.start("value")
			switch v.kind {
			case KindArray:
				w.start("array")
				w.start("data")
				top.cursor = 0
			case KindStruct:
				w.start("struct")
				top.cursor = 0
			default:
				w.scalar(v)
				w.end("value")
				stack = stack[:len(stack)-1]
			}
			continue
		}

		switch v.kind {
		case KindArray:
			if top.cursor < len(v.items) {
				stack = append(stack, &encodeFrame{value: v.items[top.cursor], cursor: -1})
				top.cursor++
				continue
			}
			w.end("data")
			w.end("array")
		case KindStruct:
			if top.memberOpen {
				w.end("member")
				top.memberOpen = false
			}
			if top.cursor < len(v.members) {
				m := v.members[top.cursor]
				top.cursor++
				w.start("member")
				w.element("name", m.Name)
				top.memberOpen = true
				stack = append(stack, &encodeFrame{value: m.Value, cursor: -1})
				continue
			}
			w.end("struct")
		}
		w.end("value")
		stack = stack[:len(stack)-1]
	}
}

func (w *tokenWriter) scalar(v Value) {
	switch v.kind {
	case KindNil:
		w.element("nil", "")
	case KindBool:
		text := "0"
		if v.b {
			text = "1"
		}
		w.element("boolean", text)
	case KindInt:
		tag := "int"
		if v.i > maxInt4 || v.i < minInt4 {
			tag = "i8"
		}
		w.element(tag, strconv.FormatInt(v.i, 10))
	case KindDouble:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			if w.err == nil {
				w.err = errors.NotValidf("double %v", v.f)
			}
			return
		}
		w.element("double", strconv.FormatFloat(v.f, 'f', -1, 64))
	case KindString:
		w.element("string", v.s)
	case KindBase64:
		w.element("base64", base64.StdEncoding.EncodeToString(v.data))
	case KindDateTime:
		w.element("dateTime.iso8601", v.t.Format(dateTimeLayout))
	default:
		if w.err == nil {
			w.err = errors.NotValidf("value kind %v", v.kind)
		}
	}
}
