// Copyright 2025 The steamnetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package a2s

import (
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// kind distinguishes the shape of value carried by a Filter node.
type kind int

const (
	kindStr kind = iota
	kindInt
	kindBool
	kindStrList
	kindGroup
)

// Filter is one node of the Master Server filter tree (spec §6.4): a
// leaf carries a typed value under a recognised key, an interior node
// ("nor"/"nand") carries child clauses. The zero value is not a valid
// Filter; build one with Nor/Nand/Str/Int/Bool/StrList or FromMap.
type Filter struct {
	kind kind
	key  string

	str     string
	i       int64
	b       bool
	strList []string
	op      string
	group   []Filter
}

var stringKeys = map[string]bool{
	"gamedir": true, "map": true, "name_match": true,
	"version_match": true, "gameaddr": true,
}
var intKeys = map[string]bool{"appid": true, "napp": true}
var listKeys = map[string]bool{"gametype": true, "gamedata": true, "gamedataor": true}
var boolKeys = map[string]bool{
	"dedicated": true, "secure": true, "linux": true, "proxy": true,
	"whitelisted": true, "collapse_addr_hash": true,
	"password": true, "empty": true, "full": true,
}

// Str builds a string-valued leaf. Returns BadFilter if key is not one
// of the recognised string keys.
func Str(key, value string) (Filter, error) {
	if !stringKeys[key] {
		return Filter{}, badFilterf("key %q is not a string filter", key)
	}
	return Filter{kind: kindStr, key: key, str: value}, nil
}

// Int builds an integer-valued leaf (appid, napp).
func Int(key string, value int64) (Filter, error) {
	if !intKeys[key] {
		return Filter{}, badFilterf("key %q is not an integer filter", key)
	}
	return Filter{kind: kindInt, key: key, i: value}, nil
}

// StrList builds a comma-joined tuple-of-strings leaf (gametype,
// gamedata, gamedataor).
func StrList(key string, values []string) (Filter, error) {
	if !listKeys[key] {
		return Filter{}, badFilterf("key %q is not a string-list filter", key)
	}
	return Filter{kind: kindStrList, key: key, strList: append([]string(nil), values...)}, nil
}

// Bool builds a boolean-valued leaf. The serialised form depends on
// both key and value per the non-uniform table in spec §6.4 — see
// Serialize.
func Bool(key string, value bool) (Filter, error) {
	if !boolKeys[key] {
		return Filter{}, badFilterf("key %q is not a boolean filter", key)
	}
	return Filter{kind: kindBool, key: key, b: value}, nil
}

// Nor wraps children in a "nor" group.
func Nor(children ...Filter) Filter {
	return Filter{kind: kindGroup, op: "nor", group: children}
}

// Nand wraps children in a "nand" group.
func Nand(children ...Filter) Filter {
	return Filter{kind: kindGroup, op: "nand", group: children}
}

// badFilterf builds a KindBadFilter *Error with no endpoint — filter
// construction is validated before any socket is opened (spec §6.4),
// so there is no endpoint to attach yet.
func badFilterf(format string, args ...any) *Error {
	return newErr("", KindBadFilter, errors.Errorf(format, args...))
}

// Serialize renders the filter tree to the wire form: a concatenation
// of `\key\value` segments (spec §6.4). Boolean leaves use the
// protocol's non-uniform substitution pairs, not a uniform \key\0 /
// \key\1 — see the per-key cases below.
func (f Filter) Serialize() string {
	var b strings.Builder
	f.writeTo(&b)
	return b.String()
}

func (f Filter) writeTo(b *strings.Builder) {
	switch f.kind {
	case kindStr:
		b.WriteByte('\\')
		b.WriteString(f.key)
		b.WriteByte('\\')
		b.WriteString(f.str)
	case kindInt:
		b.WriteByte('\\')
		b.WriteString(f.key)
		b.WriteByte('\\')
		b.WriteString(strconv.FormatInt(f.i, 10))
	case kindStrList:
		b.WriteByte('\\')
		b.WriteString(f.key)
		b.WriteByte('\\')
		b.WriteString(strings.Join(f.strList, ","))
	case kindBool:
		f.writeBool(b)
	case kindGroup:
		b.WriteByte('\\')
		b.WriteString(f.op)
		b.WriteByte('\\')
		b.WriteString(strconv.Itoa(len(f.group)))
		for _, c := range f.group {
			c.writeTo(b)
		}
	}
}

// writeBool implements the table in spec §6.4 exactly. Most boolean
// keys, full included, follow "true → \key\1, false → \nor\1\key\1";
// password inverts which side gets the nor wrapper; empty encodes false
// with the opposite key (\noplayers\1) rather than a nor wrapper.
func (f Filter) writeBool(b *strings.Builder) {
	switch f.key {
	case "password":
		if f.b {
			b.WriteString(`\nor\1\password\0`)
		} else {
			b.WriteString(`\password\0`)
		}
	case "empty":
		if f.b {
			b.WriteString(`\empty\1`)
		} else {
			b.WriteString(`\noplayers\1`)
		}
	case "full":
		if f.b {
			b.WriteString(`\full\1`)
		} else {
			b.WriteString(`\nor\1\full\1`)
		}
	default: // dedicated, secure, linux, proxy, whitelisted, collapse_addr_hash
		if f.b {
			b.WriteByte('\\')
			b.WriteString(f.key)
			b.WriteString(`\1`)
		} else {
			b.WriteString(`\nor\1\`)
			b.WriteString(f.key)
			b.WriteString(`\1`)
		}
	}
}

// rawFilter mirrors the generic-map shape FromMap accepts: leaf keys
// decode straight from whatever stringly-typed values a CLI flag or
// config file supplies, coerced with spf13/cast; "nor"/"nand" decode
// as nested []map[string]any sub-trees via mitchellh/mapstructure.
type rawFilter struct {
	Nor  []map[string]any `mapstructure:"nor"`
	Nand []map[string]any `mapstructure:"nand"`
	Rest map[string]any   `mapstructure:",remain"`
}

// FromMap builds a Filter from a generic map, the shape produced by
// decoding a YAML/JSON filter document or a repeated --filter CLI
// flag. Leaf values are coerced from whatever stringly-typed form
// they arrive in (string, float64, bool — whatever the source map
// produced) using spf13/cast; unrecognised keys or type mismatches
// fail BadFilter before any network I/O, per spec §6.4.
func FromMap(m map[string]any) (Filter, error) {
	var raw rawFilter
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &raw, WeaklyTypedInput: true})
	if err != nil {
		return Filter{}, badFilterf("%s", err)
	}
	if err := dec.Decode(m); err != nil {
		return Filter{}, badFilterf("%s", err)
	}

	var group []Filter
	for key, v := range raw.Rest {
		f, err := leafFromAny(key, v)
		if err != nil {
			return Filter{}, err
		}
		group = append(group, f)
	}
	for _, sub := range raw.Nor {
		f, err := FromMap(sub)
		if err != nil {
			return Filter{}, err
		}
		group = append(group, Nor(f))
	}
	for _, sub := range raw.Nand {
		f, err := FromMap(sub)
		if err != nil {
			return Filter{}, err
		}
		group = append(group, Nand(f))
	}

	if len(group) == 1 {
		return group[0], nil
	}
	return Nand(group...), nil
}

func leafFromAny(key string, v any) (Filter, error) {
	switch {
	case stringKeys[key]:
		s, err := cast.ToStringE(v)
		if err != nil {
			return Filter{}, badFilterf("key %q: %s", key, err)
		}
		return Str(key, s)
	case intKeys[key]:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return Filter{}, badFilterf("key %q: %s", key, err)
		}
		return Int(key, n)
	case boolKeys[key]:
		bv, err := cast.ToBoolE(v)
		if err != nil {
			return Filter{}, badFilterf("key %q: %s", key, err)
		}
		return Bool(key, bv)
	case listKeys[key]:
		ss, err := cast.ToStringSliceE(v)
		if err != nil {
			return Filter{}, badFilterf("key %q: %s", key, err)
		}
		return StrList(key, ss)
	default:
		return Filter{}, badFilterf("unrecognised filter key %q", key)
	}
}
