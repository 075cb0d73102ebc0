package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Extra holds JSON members a type does not model. The web client stores
// its own UI state (play order, badges, selected corporation) on players
// and results, so unknown members are carried through verbatim.
type Extra map[string]json.RawMessage

var knownFields sync.Map // reflect.Type -> map[string]bool

func fieldNames(t reflect.Type) map[string]bool {
	if v, ok := knownFields.Load(t); ok {
		return v.(map[string]bool)
	}
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = t.Field(i).Name
		}
		names[name] = true
	}
	knownFields.Store(t, names)
	return names
}

// decodeWithExtra decodes data into dst, a pointer to a method-free struct,
// and returns the members dst has no field for.
func decodeWithExtra(data []byte, dst any) (Extra, error) {
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	known := fieldNames(reflect.TypeOf(dst).Elem())
	var extra Extra
	for k, v := range all {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[k] = v
	}
	return extra, nil
}

// encodeWithExtra encodes v, a method-free struct, and appends extra
// members in key order after the modelled ones.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(extra) == 0 {
		return out, nil
	}

	known := fieldNames(reflect.TypeOf(v))
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out = out[:len(out)-1] // drop '}'
	for _, k := range keys {
		if len(out) > 1 {
			out = append(out, ',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, extra[k]...)
	}
	return append(out, '}'), nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*s = Snapshot(v)
	s.Extra = extra
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	return encodeWithExtra(plain(s), s.Extra)
}

func (p *Player) UnmarshalJSON(data []byte) error {
	type plain Player
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*p = Player(v)
	p.Extra = extra
	return nil
}

func (p Player) MarshalJSON() ([]byte, error) {
	type plain Player
	return encodeWithExtra(plain(p), p.Extra)
}

func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*g = Game(v)
	g.Extra = extra
	return nil
}

func (g Game) MarshalJSON() ([]byte, error) {
	type plain Game
	return encodeWithExtra(plain(g), g.Extra)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*r = Result(v)
	r.Extra = extra
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return encodeWithExtra(plain(r), r.Extra)
}

func (b *ScoreBreakdown) UnmarshalJSON(data []byte) error {
	type plain ScoreBreakdown
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*b = ScoreBreakdown(v)
	b.Extra = extra
	return nil
}

func (b ScoreBreakdown) MarshalJSON() ([]byte, error) {
	type plain ScoreBreakdown
	return encodeWithExtra(plain(b), b.Extra)
}
