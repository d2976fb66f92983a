package model

// Params is a bag of named simulation parameters. Profiles, request
// overrides, and derived inputs all share this shape so they can be merged
// and serialized uniformly. Numeric values are stored as float64; decoded
// JSON and YAML integers are coerced on read.
type Params map[string]any

// Clone returns a shallow copy of p. Record values are shared, matching the
// replace-whole-value semantics of Merge.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Merge returns a new parameter set holding every entry of p with every
// entry of overrides layered on top. An override replaces the stored value
// whole: overriding temperature_model swaps the entire record, it does not
// patch individual coefficients. Neither input is modified.
func (p Params) Merge(overrides Params) Params {
	merged := make(Params, len(p)+len(overrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Float reads a numeric parameter, coercing the integer types JSON and YAML
// decoding produce. Missing or non-numeric entries read as zero.
func (p Params) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool reads a boolean parameter. Missing or non-boolean entries read as false.
func (p Params) Bool(key string) bool {
	v, _ := p[key].(bool)
	return v
}

// String reads a string parameter. Missing or non-string entries read as "".
func (p Params) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Record reads a nested numeric record such as temperature_model. Both the
// typed map used by the built-in profiles and the map[string]any produced by
// JSON and YAML decoding are accepted. Missing entries read as nil.
func (p Params) Record(key string) map[string]float64 {
	switch v := p[key].(type) {
	case map[string]float64:
		return v
	case map[string]any:
		rec := make(map[string]float64, len(v))
		for k, f := range v {
			switch n := f.(type) {
			case float64:
				rec[k] = n
			case float32:
				rec[k] = float64(n)
			case int:
				rec[k] = float64(n)
			case int64:
				rec[k] = float64(n)
			}
		}
		return rec
	}
	return nil
}

// Has reports whether key is present, regardless of its value.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}
