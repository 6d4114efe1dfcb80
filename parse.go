package geometry

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse reads a geometry from its canonical encoding. Parse(g.Encode())
// always yields a geometry equal to g.
func Parse(spec string) (*Geometry, error) {
	return parseGeometry(spec, []rune(spec))
}

// MustParse is like Parse but panics on malformed input. It is meant for
// constant specifications.
func MustParse(spec string) *Geometry {
	g, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return g
}

func parseGeometry(spec string, rs []rune) (*Geometry, error) {
	switch strings.TrimSpace(string(rs)) {
	case "", "X":
		return EmptyGeometry(), nil
	case "*":
		return ScalarGeometry(), nil
	}

	var (
		dims        []*Dimension
		child       *Geometry
		granularity = Single
	)

loop:
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
		case c == '#':
			granularity = Multiple
		case c == ',':
			var err error
			if child, err = parseGeometry(spec, rs[i+1:]); err != nil {
				return nil, err
			}
			if child.empty {
				child = nil
			}
			break loop
		default:
			kind, generic, regular, ok := readTag(c)
			if !ok {
				return nil, parseErr(spec, string(c), "unrecognized dimension identifier")
			}
			for _, d := range dims {
				if d.kind == kind {
					return nil, parseErr(spec, string(c), "duplicate %s dimension", kind)
				}
			}
			d := newDimension(kind, 0)
			d.generic = generic
			d.regular = regular
			next, err := parseDimension(spec, rs, i+1, d)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)
			i = next - 1
		}
	}

	return newGeometry(dims, child, granularity), nil
}

// parseDimension reads dimensionality, shape and parameters starting at rs[i]
// and returns the index of the first rune past the dimension.
func parseDimension(spec string, rs []rune, i int, d *Dimension) (int, error) {
	if i >= len(rs) {
		return 0, parseErr(spec, string(rs[i-1]), "missing dimensionality")
	}
	switch c := rs[i]; {
	case c == '.':
		d.dimensionality = NonDimensional
	case c >= '0' && c <= '9':
		d.dimensionality = int(c - '0')
	default:
		return 0, parseErr(spec, string(rs[i-1:i+1]), "dimensionality must be a digit or '.'")
	}
	i++

	if i < len(rs) && rs[i] == '(' {
		end := indexRune(rs, i, ')')
		if end < 0 {
			return 0, parseErr(spec, string(rs[i:]), "unbalanced '('")
		}
		shape, err := parseShape(spec, string(rs[i+1:end]))
		if err != nil {
			return 0, err
		}
		d.shape = shape
		d.dimensionality = len(shape)
		i = end + 1
	}

	if i < len(rs) && rs[i] == '{' {
		end := indexRune(rs, i, '}')
		if end < 0 {
			return 0, parseErr(spec, string(rs[i:]), "unbalanced '{'")
		}
		if err := parseParameters(spec, string(rs[i+1:end]), d.params); err != nil {
			return 0, err
		}
		i = end + 1
	}

	return i, nil
}

func indexRune(rs []rune, from int, r rune) int {
	for j := from; j < len(rs); j++ {
		if rs[j] == r {
			return j
		}
	}
	return -1
}

func parseShape(spec, s string) ([]int64, error) {
	entries := strings.Split(s, ",")
	shape := make([]int64, len(entries))
	for i, e := range entries {
		e = strings.TrimSpace(e)
		switch e {
		case "":
			shape[i] = Undefined
		case string(infinityRune):
			shape[i] = Infinite
		default:
			n, err := strconv.ParseInt(e, 10, 64)
			if err != nil || n < 0 {
				return nil, parseErr(spec, e, "shape entries must be non-negative integers or %c", infinityRune)
			}
			shape[i] = n
		}
	}
	return shape, nil
}

func parseParameters(spec, s string, params Parameters) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for _, kv := range strings.Split(s, ",") {
		kv = strings.TrimSpace(kv)
		if strings.Count(kv, "=") != 1 {
			return parseErr(spec, kv, "parameters must be key=value pairs")
		}
		key, raw, _ := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return parseErr(spec, kv, "empty parameter key")
		}
		v, err := decodeValue(key, raw)
		if err != nil {
			return parseErr(spec, kv, "%v", err)
		}
		params[key] = v
	}
	return nil
}
