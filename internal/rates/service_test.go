package rates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/STTM-NSU/currency-transformer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rates map[string]model.Rate
	err   error
	calls int
}

func (f *fakeStore) FetchRates(ctx context.Context, from, to string) ([]model.Rate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: can't query rates", err)
	}

	codes := []string{from}
	if from != to {
		codes = append(codes, to)
	}
	var result []model.Rate
	for _, code := range codes {
		if r, ok := f.rates[code]; ok {
			result = append(result, r)
		}
	}
	if err := checkCoverage(codes, result); err != nil {
		return nil, err
	}
	return result, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{rates: map[string]model.Rate{
		"USD": rate("USD", "1.00000"),
		"EUR": rate("EUR", "0.92000"),
	}}
}

func TestService_Convert(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, logger.NewNopLogger())

	got, err := service.Convert(context.Background(), request("100", "USD", "EUR"))
	require.NoError(t, err)
	assertDecimal(t, "92", got.Amount)

	got, err = service.Convert(context.Background(), request("92", "EUR", "USD"))
	require.NoError(t, err)
	assertDecimal(t, "100", got.Amount)

	got, err = service.Convert(context.Background(), request("42.42", "EUR", "EUR"))
	require.NoError(t, err)
	assertDecimal(t, "42.42", got.Amount)

	assert.Equal(t, 3, store.calls)
}

func TestService_ConvertErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		req  model.ConversionRequest
		want Kind
	}{
		{name: "unknown currency", ctx: context.Background(), req: request("1", "USD", "GBP"), want: KindRateNotFound},
		{name: "store down", ctx: context.Background(), err: errors.New("dial tcp: connection refused"), req: request("1", "USD", "EUR"), want: KindInternal},
		{name: "deadline", ctx: context.Background(), err: fmt.Errorf("%w: can't query rates", context.DeadlineExceeded), req: request("1", "USD", "EUR"), want: KindTimeout},
		{name: "cancelled context", ctx: cancelled, req: request("1", "USD", "EUR"), want: KindCanceled},
		{name: "cancelled store call", ctx: context.Background(), err: fmt.Errorf("%w: can't query rates", context.Canceled), req: request("1", "USD", "EUR"), want: KindCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.err = tt.err
			service := NewService(store, logger.NewNopLogger())

			_, err := service.Convert(tt.ctx, tt.req)
			require.Error(t, err)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.want, e.Kind)
		})
	}
}
