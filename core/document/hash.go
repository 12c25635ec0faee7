package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Hash returns the lowercase hex sha256 digest of the canonical form of v.
func Hash(v any) string {
	sum := sha256.Sum256(Canonical(v))
	return hex.EncodeToString(sum[:])
}

// Canonical renders v as compact JSON with object keys sorted at every depth and
// numbers normalised, so structurally equal documents produce identical bytes.
// Array element order is preserved.
func Canonical(v any) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, v)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeString(buf, t)
	case json.Number:
		buf.WriteString(canonicalNumber(string(t)))
	case float64:
		buf.WriteString(formatFloat(t))
	case float32:
		buf.WriteString(formatFloat(float64(t)))
	case int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case map[string]any:
		writeObject(buf, t)
	case Document:
		writeObject(buf, map[string]any(t))
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	default:
		writeCanonical(buf, roundTrip(t))
	}
}

func writeObject(buf *bytes.Buffer, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		writeCanonical(buf, m[k])
	}
	buf.WriteByte('}')
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// roundTrip converts arbitrary Go values (structs, typed slices, other integer
// widths) into their generic JSON shape.
func roundTrip(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

// maxExponent bounds the decimal exponent expanded exactly; larger ones keep
// their literal spelling.
const maxExponent = 1000

// canonicalNumber renders a JSON number exactly: integers in full, other values
// as their shortest terminating decimal. Distinct values never share a rendering.
func canonicalNumber(s string) string {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if exp := exponent(s); exp > maxExponent || exp < -maxExponent {
		return strings.ToLower(s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	if r.IsInt() {
		return r.Num().String()
	}
	return r.FloatString(decimalPlaces(r.Denom()))
}

// exponent returns the value of the e/E part of a number literal, or 0.
func exponent(s string) int {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return 0
	}
	exp, err := strconv.Atoi(strings.TrimPrefix(s[i+1:], "+"))
	if err != nil {
		return math.MaxInt
	}
	return exp
}

// decimalPlaces returns the digits after the point needed to write 1/denom
// exactly. Decimal literals only have factors 2 and 5 in their denominator.
func decimalPlaces(denom *big.Int) int {
	d := new(big.Int).Set(denom)
	two, five := big.NewInt(2), big.NewInt(5)
	var twos, fives int
	mod := new(big.Int)
	for d.Cmp(big.NewInt(1)) > 0 {
		switch {
		case mod.Mod(d, two).Sign() == 0:
			d.Quo(d, two)
			twos++
		case mod.Mod(d, five).Sign() == 0:
			d.Quo(d, five)
			fives++
		default:
			// Not a terminating decimal; cannot come from a JSON literal.
			return 64
		}
	}
	return max(twos, fives)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return canonicalNumber(strconv.FormatFloat(f, 'g', -1, 64))
}
