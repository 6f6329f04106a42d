// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// The service is loose about scalar types: ids and counts may come as
// <int> or as numeric <string>, flags as <boolean>, <int> or <string>.

func asInt(v xmlrpc.Value) (int64, error) {
	switch v.Kind() {
	case xmlrpc.KindInt:
		return v.AsInt()
	case xmlrpc.KindString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.NotValidf("integer %q", s)
		}
		return i, nil
	case xmlrpc.KindDouble:
		f, _ := v.AsDouble()
		if f != float64(int64(f)) {
			return 0, errors.NotValidf("integer %v", f)
		}
		return int64(f), nil
	}
	return 0, errors.NotValidf("%s value as integer", v.Kind())
}

func asBool(v xmlrpc.Value) (bool, error) {
	switch v.Kind() {
	case xmlrpc.KindBool:
		return v.AsBool()
	case xmlrpc.KindInt:
		i, _ := v.AsInt()
		return i != 0, nil
	case xmlrpc.KindString:
		s, _ := v.AsString()
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, errors.NotValidf("boolean %q", s)
		}
		return b, nil
	}
	return false, errors.NotValidf("%s value as boolean", v.Kind())
}

// asText returns v as a string. Nil reads as empty, timestamps are
// formatted, and an array of strings is joined one per line.
func asText(v xmlrpc.Value) (string, error) {
	switch v.Kind() {
	case xmlrpc.KindNil:
		return "", nil
	case xmlrpc.KindString:
		return v.AsString()
	case xmlrpc.KindBase64:
		b, _ := v.AsBytes()
		return string(b), nil
	case xmlrpc.KindDateTime:
		t, _ := v.AsTime()
		return t.Format("2006-01-02 15:04:05"), nil
	case xmlrpc.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), nil
	case xmlrpc.KindArray:
		items, _ := v.Items()
		lines := make([]string, len(items))
		for i, item := range items {
			s, err := asText(item)
			if err != nil {
				return "", errors.Trace(err)
			}
			lines[i] = s
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", errors.NotValidf("%s value as text", v.Kind())
}

// member returns the named member of a struct, failing if it is absent.
func member(v xmlrpc.Value, name string) (xmlrpc.Value, error) {
	m, ok := v.Get(name)
	if !ok {
		if v.Kind() != xmlrpc.KindStruct {
			return xmlrpc.Value{}, errors.NotValidf("%s value as struct", v.Kind())
		}
		return xmlrpc.Value{}, errors.NotFoundf("member %q", name)
	}
	return m, nil
}
