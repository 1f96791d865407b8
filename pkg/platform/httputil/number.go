package httputil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number decodes from either a JSON number or a numeric string, since
// clients send ages, coverage bounds and premiums in both representations.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", string(data))
	}
	*n = Number(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// Int returns the truncated integer value.
func (n Number) Int() int { return int(n) }

// Int64 returns the truncated 64-bit integer value.
func (n Number) Int64() int64 { return int64(n) }

// Float returns the raw float value.
func (n Number) Float() float64 { return float64(n) }
