package rates

import (
	"testing"

	"github.com/STTM-NSU/currency-transformer/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rate(country, value string) model.Rate {
	return model.Rate{Country: country, Value: dec(value)}
}

func request(amount, from, to string) model.ConversionRequest {
	return model.ConversionRequest{Amount: dec(amount), From: from, To: to}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func assertDecimalNear(t *testing.T, want, got decimal.Decimal, tolerance string) {
	t.Helper()
	assert.Truef(t, want.Sub(got).Abs().LessThanOrEqual(dec(tolerance)), "want %s, got %s", want, got)
}

func TestResolve(t *testing.T) {
	usdEur := []model.Rate{rate("USD", "1.00000"), rate("EUR", "0.92000")}
	eurUsd := []model.Rate{rate("EUR", "0.92000"), rate("USD", "1.00000")}

	tests := []struct {
		name  string
		rates []model.Rate
		req   model.ConversionRequest
		want  string
	}{
		{name: "usd to eur", rates: usdEur, req: request("100", "USD", "EUR"), want: "92.00000"},
		{name: "usd to eur reversed rows", rates: eurUsd, req: request("100", "USD", "EUR"), want: "92"},
		{name: "eur to usd", rates: usdEur, req: request("92", "EUR", "USD"), want: "100.00000"},
		{name: "eur to usd reversed rows", rates: eurUsd, req: request("92", "EUR", "USD"), want: "100"},
		{name: "zero amount", rates: usdEur, req: request("0", "USD", "EUR"), want: "0"},
		{name: "fractional amount", rates: usdEur, req: request("0.5", "USD", "EUR"), want: "0.46"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.rates, tt.req)
			require.NoError(t, err)
			assertDecimal(t, tt.want, got.Amount)
		})
	}
}

func TestResolveSameCurrencyIsIdentity(t *testing.T) {
	for _, amount := range []string{"0", "1", "100", "0.1", "123456789.123456789123456789"} {
		t.Run(amount, func(t *testing.T) {
			got, err := Resolve([]model.Rate{rate("JPY", "149.37")}, request(amount, "JPY", "JPY"))
			require.NoError(t, err)
			assert.Equal(t, dec(amount).String(), got.Amount.String())
		})
	}
}

func TestResolveMatchesFormula(t *testing.T) {
	rows := []model.Rate{rate("GBP", "0.79"), rate("USD", "1"), rate("JPY", "149.5")}
	for _, from := range []string{"GBP", "USD", "JPY"} {
		for _, to := range []string{"GBP", "USD", "JPY"} {
			if from == to {
				continue
			}
			t.Run(from+"-"+to, func(t *testing.T) {
				rf, _ := lookup(rows, from)
				rt, _ := lookup(rows, to)
				amount := dec("250.25")

				got, err := Resolve(rows, model.ConversionRequest{Amount: amount, From: from, To: to})
				require.NoError(t, err)

				want := amount.Mul(rt.Value).Div(rf.Value)
				assertDecimalNear(t, want, got.Amount, "0.0000000000001")
			})
		}
	}
}

func TestResolveLinearity(t *testing.T) {
	rows := []model.Rate{rate("USD", "1.00000"), rate("EUR", "0.92000")}
	base, err := Resolve(rows, request("7", "EUR", "USD"))
	require.NoError(t, err)

	for _, k := range []string{"2", "3", "10", "0.5"} {
		t.Run(k, func(t *testing.T) {
			scaled, err := Resolve(rows, request(dec("7").Mul(dec(k)).String(), "EUR", "USD"))
			require.NoError(t, err)
			assertDecimalNear(t, base.Amount.Mul(dec(k)), scaled.Amount, "0.00000000000001")
		})
	}

	exact, err := Resolve(rows, request("300", "USD", "EUR"))
	require.NoError(t, err)
	one, err := Resolve(rows, request("100", "USD", "EUR"))
	require.NoError(t, err)
	assertDecimal(t, one.Amount.Mul(dec("3")).String(), exact.Amount)
}

func TestResolveRoundTrip(t *testing.T) {
	rows := []model.Rate{rate("USD", "1"), rate("JPY", "149.5")}

	there, err := Resolve(rows, request("10", "JPY", "USD"))
	require.NoError(t, err)
	back, err := Resolve(rows, model.ConversionRequest{Amount: there.Amount, From: "USD", To: "JPY"})
	require.NoError(t, err)

	assertDecimalNear(t, dec("10"), back.Amount, "0.000000000001")
}

func TestResolveMissingRowIsInternal(t *testing.T) {
	tests := []struct {
		name  string
		rates []model.Rate
		req   model.ConversionRequest
	}{
		{name: "no rows", rates: nil, req: request("1", "USD", "EUR")},
		{name: "no source", rates: []model.Rate{rate("EUR", "0.92")}, req: request("1", "USD", "EUR")},
		{name: "no target", rates: []model.Rate{rate("USD", "1")}, req: request("1", "USD", "EUR")},
		{name: "same currency no row", rates: []model.Rate{rate("USD", "1")}, req: request("1", "EUR", "EUR")},
		{name: "zero source rate", rates: []model.Rate{rate("USD", "0"), rate("EUR", "0.92")}, req: request("1", "USD", "EUR")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.rates, tt.req)
			require.Error(t, err)
			assert.Equal(t, KindInternal, KindOf(err))
		})
	}
}
