package rates

import "github.com/STTM-NSU/currency-transformer/internal/model"

// DivisionPrecision is the number of decimal places kept when dividing by the
// source rate.
const DivisionPrecision int32 = 16

// Resolve converts req.Amount with the rows fetched for req.From and req.To.
// Rows are matched by country, their order is irrelevant.
func Resolve(rates []model.Rate, req model.ConversionRequest) (model.ConversionResult, error) {
	source, ok := lookup(rates, req.From)
	if !ok {
		return model.ConversionResult{}, internal(nil, "rate for source currency %s missing from fetched rows", req.From)
	}

	// same currency: factor is exactly one
	if req.SameCurrency() {
		return model.ConversionResult{Amount: req.Amount}, nil
	}

	target, ok := lookup(rates, req.To)
	if !ok {
		return model.ConversionResult{}, internal(nil, "rate for target currency %s missing from fetched rows", req.To)
	}
	if source.Value.IsZero() {
		return model.ConversionResult{}, internal(nil, "zero rate for source currency %s", req.From)
	}

	amount := req.Amount.Mul(target.Value).DivRound(source.Value, DivisionPrecision)
	return model.ConversionResult{Amount: amount}, nil
}

func lookup(rates []model.Rate, country string) (model.Rate, bool) {
	for _, r := range rates {
		if r.Country == country {
			return r, true
		}
	}
	return model.Rate{}, false
}
