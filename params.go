package geometry

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Parameter keys. These strings are part of the persisted encoding and must
// not change.
const (
	// ParamSpaceBoundingBox holds []float64{minX, maxX, minY, maxY}.
	ParamSpaceBoundingBox = "bbox"
	// ParamSpaceLonLat holds []float64{lon, lat}.
	ParamSpaceLonLat = "latlon"
	// ParamEnumeratedAuthority is the authority of a generic enumerated extent.
	ParamEnumeratedAuthority = "authority"
	// ParamEnumeratedBaseIdentity is the base identity of a generic enumerated extent.
	ParamEnumeratedBaseIdentity = "baseidentity"
	// ParamEnumeratedIdentifier is the concrete identity of an enumerated extent.
	ParamEnumeratedIdentifier = "identifier"
	// ParamSpaceProjection is the projection code, e.g. EPSG:4326.
	ParamSpaceProjection = "proj"
	// ParamSpaceGridResolution is a grid resolution as "n unit".
	ParamSpaceGridResolution = "sgrid"
	// ParamSpaceGridURN is the URN of a grid to align with.
	ParamSpaceGridURN = "gridurn"
	// ParamSpaceShape is a shape in WKB/WKT. Its value is never parsed as a number.
	ParamSpaceShape = "shape"
	// ParamSpaceResourceURN is the URN of a resource providing the spatial extent.
	ParamSpaceResourceURN = "urn"
	// ParamTimePeriod holds []int64{startMillis, endMillis}.
	ParamTimePeriod = "period"
	// ParamTimeGridResolution is the time step.
	ParamTimeGridResolution = "tgrid"
	// ParamTimeStart is the start time in milliseconds.
	ParamTimeStart = "tstart"
	// ParamTimeEnd is the end time in milliseconds.
	ParamTimeEnd = "tend"
	// ParamTimeRepresentation is one of the TimeXxx representation values.
	ParamTimeRepresentation = "ttype"
	// ParamTimeTransitions holds irregular transition points, start to end.
	ParamTimeTransitions = "transitions"
	// ParamTimeScope is a number of ParamTimeScopeUnit.
	ParamTimeScope = "tscope"
	// ParamTimeScopeUnit is a lowercase resolution unit name (year, month, ...).
	ParamTimeScopeUnit = "tunit"
	// ParamTimeLocator is a specific time location for locator geometries.
	ParamTimeLocator       = "time"
	ParamTimeCoverageUnit  = "coverageunit"
	ParamTimeCoverageStart = "coveragestart"
	ParamTimeCoverageEnd   = "coverageend"
)

// Time representations stored under ParamTimeRepresentation.
const (
	TimeLogical  = "LOGICAL"
	TimePhysical = "PHYSICAL"
	TimeGrid     = "GRID"
	TimeReal     = "REAL"
)

// Parameters holds the free-form metadata of a dimension. Values are int64,
// float64, bool, string or slices of those.
type Parameters map[string]any

// Keys returns the parameter keys in encoding order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a string parameter, or the encoded form of any other value.
func (p Parameters) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return encodeValue(v), true
}

// Int returns an integer parameter.
func (p Parameters) Int(key string) (int64, bool) {
	v, ok := p[key].(int64)
	return v, ok
}

// Floats returns a numeric array parameter as float64s.
func (p Parameters) Floats(key string) ([]float64, bool) {
	switch v := p[key].(type) {
	case []float64:
		return slices.Clone(v), true
	case []int64:
		ret := make([]float64, len(v))
		for i, n := range v {
			ret[i] = float64(n)
		}
		return ret, true
	}
	return nil, false
}

func (p Parameters) clone() Parameters {
	ret := make(Parameters, len(p))
	for k, v := range p {
		ret[k] = cloneValue(v)
	}
	return ret
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []int64:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	case []bool:
		return slices.Clone(t)
	case []string:
		return slices.Clone(t)
	}
	return v
}

// normalizeValue converts Go values to the types the codec produces, so that a
// parameter set programmatically compares equal to its parsed form.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	case []int:
		ret := make([]int64, len(t))
		for i, n := range t {
			ret[i] = int64(n)
		}
		return ret
	case []float32:
		ret := make([]float64, len(t))
		for i, f := range t {
			ret[i] = float64(f)
		}
		return ret
	case []any:
		ret := make([]string, len(t))
		for i, e := range t {
			ret[i] = encodeValue(e)
		}
		return ret
	case fmt.Stringer:
		return t.String()
	}
	return cloneValue(v)
}

func encodeValue(v any) string {
	switch t := v.(type) {
	case string:
		return escapeValue(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return formatDouble(t)
	case float32:
		return formatDouble(float64(t))
	case bool:
		return strconv.FormatBool(t)
	case []int64:
		return encodeArray(t, func(n int64) string { return strconv.FormatInt(n, 10) })
	case []int:
		return encodeArray(t, strconv.Itoa)
	case []float64:
		return encodeArray(t, formatDouble)
	case []bool:
		return encodeArray(t, strconv.FormatBool)
	case []string:
		return encodeArray(t, escapeValue)
	case fmt.Stringer:
		return escapeValue(t.String())
	}
	return escapeValue(fmt.Sprint(v))
}

func encodeArray[T any](values []T, format func(T) string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(format(v))
	}
	sb.WriteByte(']')
	return sb.String()
}

// formatDouble renders a float64 so that it always reads back as a float:
// plain notation with at least one decimal in [1e-3, 1e7), scientific
// notation with an 'E' otherwise.
func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, _ := strconv.Atoi(exponent)
	return mantissa + "E" + strconv.Itoa(exp)
}

var valueEscaper = strings.NewReplacer(",", "&comma;", "=", "&eq;")
var valueUnescaper = strings.NewReplacer("&comma;", ",", "&eq;", "=")

// escapeValue drops surrounding whitespace, which the parser ignores.
func escapeValue(s string) string   { return valueEscaper.Replace(strings.TrimSpace(s)) }
func unescapeValue(s string) string { return valueUnescaper.Replace(s) }

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	doublePattern  = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)
)

// decodeValue turns the textual value of a parameter back into its typed form.
func decodeValue(key, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if key == ParamSpaceShape {
		return unescapeValue(raw), nil
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return decodeArray(key, raw[1:len(raw)-1])
	}
	raw = unescapeValue(raw)
	if integerPattern.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
		// digits beyond int64 stay text rather than lose precision as a float
		return raw, nil
	}
	if doublePattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
	}
	return raw, nil
}

func decodeArray(key, inner string) (any, error) {
	fields := strings.Fields(inner)
	for i := range fields {
		fields[i] = unescapeValue(fields[i])
	}

	ints := make([]int64, 0, len(fields))
	for _, f := range fields {
		if !integerPattern.MatchString(f) {
			break
		}
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			break
		}
		ints = append(ints, n)
	}
	if len(ints) == len(fields) && len(fields) > 0 {
		return ints, nil
	}
	if key == ParamTimePeriod {
		return nil, fmt.Errorf("parameter %s requires integer values, got [%s]", key, inner)
	}

	floats := make([]float64, 0, len(fields))
	for _, f := range fields {
		if !doublePattern.MatchString(f) {
			break
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			break
		}
		floats = append(floats, v)
	}
	if len(floats) == len(fields) && len(fields) > 0 {
		return floats, nil
	}

	bools := make([]bool, 0, len(fields))
	for _, f := range fields {
		if f != "true" && f != "false" {
			break
		}
		bools = append(bools, f == "true")
	}
	if len(bools) == len(fields) && len(fields) > 0 {
		return bools, nil
	}

	return fields, nil
}
