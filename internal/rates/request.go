package rates

import (
	"strings"

	"github.com/STTM-NSU/currency-transformer/internal/model"
	"github.com/shopspring/decimal"
)

const (
	maxMoneyLength   = 64
	minMoneyExponent = -32
	maxMoneyExponent = 32
)

// ParseRequest validates raw query values. Codes are trimmed and upper-cased.
func ParseRequest(money, from, to string) (model.ConversionRequest, error) {
	money = strings.TrimSpace(money)
	if money == "" {
		return model.ConversionRequest{}, invalidInput("money is required")
	}
	if len(money) > maxMoneyLength {
		return model.ConversionRequest{}, invalidInput("money must be at most %d characters", maxMoneyLength)
	}
	amount, err := decimal.NewFromString(money)
	if err != nil {
		return model.ConversionRequest{}, invalidInput("money %q is not a decimal number", money)
	}
	if exp := amount.Exponent(); exp < minMoneyExponent || exp > maxMoneyExponent {
		return model.ConversionRequest{}, invalidInput("money exponent must be within %d..%d", minMoneyExponent, maxMoneyExponent)
	}
	if amount.IsNegative() {
		return model.ConversionRequest{}, invalidInput("money must not be negative")
	}

	from = normalizeCode(from)
	if from == "" {
		return model.ConversionRequest{}, invalidInput("from currency is required")
	}
	to = normalizeCode(to)
	if to == "" {
		return model.ConversionRequest{}, invalidInput("to currency is required")
	}

	return model.ConversionRequest{
		Amount: amount,
		From:   from,
		To:     to,
	}, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
