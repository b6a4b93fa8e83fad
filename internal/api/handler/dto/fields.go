package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numbers are held as text and only turned into decimals within these
// bounds, since decimal arithmetic materialises 10^exponent.
const (
	maxNumberLen      = 64
	maxNumberExponent = 400
)

func parseNumber(s string) (decimal.Decimal, error) {
	if len(s) > maxNumberLen {
		return decimal.Decimal{}, fmt.Errorf("number too long: %d characters", len(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return decimal.Decimal{}, fmt.Errorf("number out of range: %s", s)
	}
	return d, nil
}

// Text decodes from a JSON string or a bare JSON number, kept as written.
// null and a bare zero decode to "" and so count as missing.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	d, err := parseNumber(string(b))
	if err != nil {
		return fmt.Errorf("expected string, got %.32s: %w", b, err)
	}
	if d.IsZero() {
		*t = ""
		return nil
	}
	*t = Text(b)
	return nil
}

// Number decodes from a JSON number or a string holding one. null and
// blank strings decode to "".
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = ""
			return nil
		}
	}

	if _, err := parseNumber(s); err != nil {
		return fmt.Errorf("invalid number %.32q: %w", s, err)
	}
	*n = Number(s)
	return nil
}

func (n Number) Decimal() (decimal.Decimal, error) {
	return parseNumber(string(n))
}

func (n Number) IsZero() bool {
	d, err := n.Decimal()
	return err != nil || d.IsZero()
}
