package patch

import "math"

// Params holds the parsed parameters of a single patch node.
type Params struct {
	ID   string
	Type string
	Num  map[string]float64
	Str  map[string]string
	List map[string][]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// Has reports whether a numeric parameter is present.
func (p Params) Has(key string) bool {
	_, ok := p.Num[key]
	return ok
}

// GetStr extracts a string parameter, returning def if missing.
func (p Params) GetStr(key, def string) string {
	v, ok := p.Str[key]
	if !ok {
		return def
	}

	return v
}

// GetList extracts a numeric array parameter. The result is nil when missing.
func (p Params) GetList(key string) []float64 {
	return p.List[key]
}

// parseNodeParams splits a raw JSON params object into numeric, string and
// numeric array parameters. Booleans map to 0 and 1; arrays holding anything
// but numbers are dropped.
func parseNodeParams(raw any) (map[string]float64, map[string]string, map[string][]float64) {
	num := map[string]float64{}
	str := map[string]string{}
	list := map[string][]float64{}

	params, ok := raw.(map[string]any)
	if !ok || params == nil {
		return num, str, list
	}

	for k, v := range params {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		case []any:
			values, ok := toFloats(t)
			if ok {
				list[k] = values
			}
		}
	}

	return num, str, list
}

func toFloats(raw []any) ([]float64, bool) {
	values := make([]float64, len(raw))

	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}

		values[i] = f
	}

	return values, true
}
