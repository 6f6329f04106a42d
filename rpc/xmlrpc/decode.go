// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"golang.org/x/net/html/charset"
)

// Servers disagree on how to write timestamps; all of these are
// accepted on input.
var dateTimeLayouts = []string{
	dateTimeLayout,
	"20060102T150405",
	"20060102T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// DecodeResponse reads a <methodResponse> document from r. The payload
// is parsed as it streams in. A fault envelope is returned as a *Fault
// error and a malformed payload as a *DecodeError. Any other error is a
// failure reading r itself.
func DecodeResponse(r io.Reader) (Value, error) {
	d := newDecoder(r)
	if err := d.expectStart("methodResponse"); err != nil {
		return Value{}, err
	}
	start, err := d.nextStart()
	if err != nil {
		return Value{}, err
	}
	switch start.Name.Local {
	case "params":
		tok, err := d.nextSignificant()
		if err != nil {
			return Value{}, err
		}
		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "params" {
			// A void response.
			return Nil(), d.expectEnd("methodResponse")
		}
		if s, ok := tok.(xml.StartElement); !ok || s.Name.Local != "param" {
			return Value{}, unexpected(tok, "<param>")
		}
		if err := d.expectStart("value"); err != nil {
			return Value{}, err
		}
		v, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		if err := d.expectEnds("param", "params", "methodResponse"); err != nil {
			return Value{}, err
		}
		return v, nil
	case "fault":
		if err := d.expectStart("value"); err != nil {
			return Value{}, err
		}
		v, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		if err := d.expectEnds("fault", "methodResponse"); err != nil {
			return Value{}, err
		}
		fault, err := faultFromValue(v)
		if err != nil {
			return Value{}, err
		}
		return Value{}, fault
	}
	return Value{}, unexpected(start, "<params> or <fault>")
}

// DecodeCall reads a <methodCall> document from r, returning the method
// name and its positional arguments.
func DecodeCall(r io.Reader) (string, []Value, error) {
	d := newDecoder(r)
	if err := d.expectStart("methodCall"); err != nil {
		return "", nil, err
	}
	if err := d.expectStart("methodName"); err != nil {
		return "", nil, err
	}
	method, err := d.text("methodName")
	if err != nil {
		return "", nil, err
	}
	method = strings.TrimSpace(method)

	var args []Value
	tok, err := d.nextSignificant()
	if err != nil {
		return "", nil, err
	}
	if s, ok := tok.(xml.StartElement); ok && s.Name.Local == "params" {
		for {
			tok, err := d.nextSignificant()
			if err != nil {
				return "", nil, err
			}
			if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "params" {
				break
			}
			if s, ok := tok.(xml.StartElement); !ok || s.Name.Local != "param" {
				return "", nil, unexpected(tok, "<param>")
			}
			if err := d.expectStart("value"); err != nil {
				return "", nil, err
			}
			v, err := d.readValue()
			if err != nil {
				return "", nil, err
			}
			if err := d.expectEnd("param"); err != nil {
				return "", nil, err
			}
			args = append(args, v)
		}
		if err := d.expectEnd("methodCall"); err != nil {
			return "", nil, err
		}
	} else if end, ok := tok.(xml.EndElement); !ok || end.Name.Local != "methodCall" {
		return "", nil, unexpected(tok, "<params>")
	}
	return method, args, nil
}

func faultFromValue(v Value) (*Fault, error) {
	codeValue, ok := v.Get("faultCode")
	if !ok {
		return nil, newDecodeError("fault without faultCode")
	}
	var code int64
	switch codeValue.Kind() {
	case KindInt:
		code, _ = codeValue.AsInt()
	case KindString:
		s, _ := codeValue.AsString()
		parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, newDecodeError("fault code %q is not a number", s)
		}
		code = parsed
	default:
		return nil, newDecodeError("fault code of kind %s", codeValue.Kind())
	}
	var message string
	if msgValue, ok := v.Get("faultString"); ok {
		message, _ = msgValue.AsString()
	}
	return &Fault{Code: int(code), Message: message}, nil
}

type decoder struct {
	d *xml.Decoder
}

func newDecoder(r io.Reader) *decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		reader, err := charset.NewReaderLabel(label, input)
		if err != nil {
			return nil, newDecodeError("charset %q: %v", label, err)
		}
		return reader, nil
	}
	return &decoder{d: d}
}

// next returns the next element or character data token, skipping
// comments, processing instructions and directives.
func (d *decoder) next() (xml.Token, error) {
	for {
		tok, err := d.d.Token()
		if err == io.EOF {
			return nil, newDecodeError("unexpected end of payload")
		}
		if err != nil {
			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) {
				return nil, decodeErr
			}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, &DecodeError{err: err}
			}
			return nil, errors.Trace(err)
		}
		switch tok.(type) {
		case xml.StartElement, xml.EndElement, xml.CharData:
			return tok, nil
		}
	}
}

// nextSignificant is like next but also skips whitespace.
func (d *decoder) nextSignificant() (xml.Token, error) {
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if text, ok := tok.(xml.CharData); ok && strings.TrimSpace(string(text)) == "" {
			continue
		}
		return tok, nil
	}
}

func (d *decoder) nextStart() (xml.StartElement, error) {
	tok, err := d.nextSignificant()
	if err != nil {
		return xml.StartElement{}, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return xml.StartElement{}, unexpected(tok, "an element")
	}
	return start, nil
}

func (d *decoder) expectStart(name string) error {
	start, err := d.nextStart()
	if err != nil {
		return err
	}
	if start.Name.Local != name {
		return unexpected(start, "<"+name+">")
	}
	return nil
}

func (d *decoder) expectEnd(name string) error {
	tok, err := d.nextSignificant()
	if err != nil {
		return err
	}
	if end, ok := tok.(xml.EndElement); !ok || end.Name.Local != name {
		return unexpected(tok, "</"+name+">")
	}
	return nil
}

func (d *decoder) expectEnds(names ...string) error {
	for _, name := range names {
		if err := d.expectEnd(name); err != nil {
			return err
		}
	}
	return nil
}

// text collects the character data of the element name, whose start
// tag has already been consumed, up to and including its end tag.
func (d *decoder) text(name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.next()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local != name {
				return "", unexpected(t, "</"+name+">")
			}
			return sb.String(), nil
		default:
			return "", unexpected(t, "text")
		}
	}
}

// decodeFrame is one compound value being assembled on the decoder
// work stack.
type decodeFrame struct {
	kind    Kind
	items   []Value
	members []Member
	name    string
}

// readValue parses the content of a <value> element whose start tag has
// already been consumed. Nesting is tracked on an explicit stack.
func (d *decoder) readValue() (Value, error) {
	var stack []*decodeFrame
	v, frame, err := d.valueContents()
	for {
		if err != nil {
			return Value{}, err
		}
		if frame != nil {
			stack = append(stack, frame)
		} else {
			if len(stack) == 0 {
				return v, nil
			}
			top := stack[len(stack)-1]
			if top.kind == KindArray {
				top.items = append(top.items, v)
			} else {
				top.members = setMember(top.members, Member{Name: top.name, Value: v})
				if err := d.expectEnd("member"); err != nil {
					return Value{}, err
				}
			}
		}
		v, frame, err = d.advance(&stack)
	}
}

// advance moves the innermost compound forward. It either begins the
// next child value, or closes the compound, pops it and returns it as a
// completed value.
func (d *decoder) advance(stack *[]*decodeFrame) (Value, *decodeFrame, error) {
	top := (*stack)[len(*stack)-1]
	tok, err := d.nextSignificant()
	if err != nil {
		return Value{}, nil, err
	}
	pop := func() { *stack = (*stack)[:len(*stack)-1] }

	switch top.kind {
	case KindArray:
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "value" {
				return d.valueContents()
			}
		case xml.EndElement:
			if t.Name.Local == "data" {
				if err := d.expectEnds("array", "value"); err != nil {
					return Value{}, nil, err
				}
				pop()
				return Array(top.items...), nil, nil
			}
		}
		return Value{}, nil, unexpected(tok, "<value> or </data>")
	case KindStruct:
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "member" {
				if err := d.expectStart("name"); err != nil {
					return Value{}, nil, err
				}
				name, err := d.text("name")
				if err != nil {
					return Value{}, nil, err
				}
				if err := d.expectStart("value"); err != nil {
					return Value{}, nil, err
				}
				top.name = name
				return d.valueContents()
			}
		case xml.EndElement:
			if t.Name.Local == "struct" {
				if err := d.expectEnd("value"); err != nil {
					return Value{}, nil, err
				}
				pop()
				members := top.members
				if members == nil {
					members = []Member{}
				}
				return Value{kind: KindStruct, members: members}, nil, nil
			}
		}
		return Value{}, nil, unexpected(tok, "<member> or </struct>")
	}
	return Value{}, nil, newDecodeError("corrupt decoder stack")
}

// valueContents reads what follows a <value> start tag. Scalars are read
// through their closing </value> and returned. Compounds return a new
// frame with only their opening tags consumed.
func (d *decoder) valueContents() (Value, *decodeFrame, error) {
	var untyped strings.Builder
	for {
		tok, err := d.next()
		if err != nil {
			return Value{}, nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			untyped.Write(t)
		case xml.EndElement:
			// <value>text</value> with no type element is a string.
			return String(untyped.String()), nil, nil
		case xml.StartElement:
			tag := t.Name.Local
			switch tag {
			case "array":
				if err := d.expectStart("data"); err != nil {
					return Value{}, nil, err
				}
				return Value{}, &decodeFrame{kind: KindArray}, nil
			case "struct":
				return Value{}, &decodeFrame{kind: KindStruct}, nil
			}
			text, err := d.text(tag)
			if err != nil {
				return Value{}, nil, err
			}
			v, err := parseScalar(tag, text)
			if err != nil {
				return Value{}, nil, err
			}
			if err := d.expectEnd("value"); err != nil {
				return Value{}, nil, err
			}
			return v, nil, nil
		}
	}
}

func parseScalar(tag, text string) (Value, error) {
	switch tag {
	case "nil":
		return Nil(), nil
	case "string":
		return String(text), nil
	case "int", "i4", "i8":
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, newDecodeError("bad %s %q", tag, text)
		}
		return Int(i), nil
	case "boolean":
		switch strings.TrimSpace(text) {
		case "1", "true":
			return Bool(true), nil
		case "0", "false":
			return Bool(false), nil
		}
		return Value{}, newDecodeError("bad boolean %q", text)
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, newDecodeError("bad double %q", text)
		}
		return Double(f), nil
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return Value{}, newDecodeError("bad base64: %v", err)
		}
		return Base64(data), nil
	case "dateTime.iso8601":
		text = strings.TrimSpace(text)
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return DateTime(t), nil
			}
		}
		return Value{}, newDecodeError("bad dateTime.iso8601 %q", text)
	}
	return Value{}, newDecodeError("unknown value type <%s>", tag)
}

func unexpected(tok xml.Token, want string) *DecodeError {
	var got string
	switch t := tok.(type) {
	case xml.StartElement:
		got = "<" + t.Name.Local + ">"
	case xml.EndElement:
		got = "</" + t.Name.Local + ">"
	case xml.CharData:
		got = strconv.Quote(string(t))
	default:
		got = "token"
	}
	return newDecodeError("expected %s, got %s", want, got)
}
