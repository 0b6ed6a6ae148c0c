package revenue

import (
	"database/sql"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a raw database or JSON value into an amount. It is total:
// absent, unparsable and non-finite values all become 0. Strings may carry
// thousands separators ("1,200.50").
func ParseMoney(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return parseMoneyString(v)
	case []byte:
		return parseMoneyString(string(v))
	case sql.NullString:
		if !v.Valid {
			return 0
		}
		return parseMoneyString(v.String)
	case *string:
		if v == nil {
			return 0
		}
		return parseMoneyString(*v)
	case sql.NullFloat64:
		if !v.Valid {
			return 0
		}
		return finite(v.Float64)
	case sql.NullInt64:
		if !v.Valid {
			return 0
		}
		return float64(v.Int64)
	case decimal.Decimal:
		return finite(v.InexactFloat64())
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

func parseMoneyString(raw string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
