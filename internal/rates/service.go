package rates

import (
	"context"
	"errors"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/STTM-NSU/currency-transformer/internal/model"
)

type RateStore interface {
	FetchRates(ctx context.Context, from, to string) ([]model.Rate, error)
}

type Service struct {
	store  RateStore
	logger logger.Logger
}

func NewService(store RateStore, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Convert fetches the two rates and applies the conversion. Returned errors are
// always *Error.
func (s *Service) Convert(ctx context.Context, req model.ConversionRequest) (model.ConversionResult, error) {
	begin := time.Now()

	fetched, err := s.store.FetchRates(ctx, req.From, req.To)
	if err != nil {
		return model.ConversionResult{}, classifyStoreError(ctx, err)
	}

	result, err := Resolve(fetched, req)
	if err != nil {
		return model.ConversionResult{}, err
	}

	s.logger.Debugf("converted %s %s to %s %s, took %s", req.Amount, req.From, result.Amount, req.To, time.Since(begin))
	return result, nil
}

func classifyStoreError(ctx context.Context, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), KindOf(err) == KindTimeout:
		return &Error{Kind: KindTimeout, Msg: "rate lookup abandoned", Err: err}
	case errors.Is(ctx.Err(), context.Canceled), KindOf(err) == KindCanceled:
		return &Error{Kind: KindCanceled, Msg: "rate lookup canceled", Err: err}
	}
	return internal(err, "can't fetch rates")
}
