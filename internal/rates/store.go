package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/STTM-NSU/currency-transformer/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/ratelimit"
)

const (
	_queryRates = "SELECT country, rate FROM rates WHERE country = ANY($1)"
)

type Store struct {
	db     *sqlx.DB
	logger logger.Logger

	rateLimiter ratelimit.Limiter
}

// NewStore wraps the shared pool. maxQPS <= 0 disables query throttling.
func NewStore(db *sqlx.DB, maxQPS int, logger logger.Logger) *Store {
	var limiter ratelimit.Limiter
	if maxQPS > 0 {
		limiter = ratelimit.New(maxQPS, ratelimit.Per(time.Second), ratelimit.WithoutSlack)
	}
	return &Store{
		db:          db,
		logger:      logger,
		rateLimiter: limiter,
	}
}

// FetchRates reads the rows for from and to in one query. Every requested code
// is guaranteed to be present exactly once in the result, in no particular order.
func (s *Store) FetchRates(ctx context.Context, from, to string) ([]model.Rate, error) {
	codes := []string{from}
	if from != to {
		codes = append(codes, to)
	}

	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: can't wait for query slot", err)
	}

	rows, err := s.db.QueryxContext(ctx, _queryRates, pq.Array(codes))
	if err != nil {
		return nil, fmt.Errorf("%w: can't query rates", err)
	}
	defer rows.Close()

	var result []model.Rate
	for rows.Next() {
		var r model.Rate
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("%w: can't scan rate", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: can't read rates", err)
	}

	if err := checkCoverage(codes, result); err != nil {
		return nil, err
	}

	s.logger.Debugf("fetched %d rates for %v", len(result), codes)
	return result, nil
}

// wait blocks for a limiter slot or until ctx is done. An abandoned wait still
// consumes its slot once the limiter hands it out.
func (s *Store) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.rateLimiter == nil {
		return nil
	}
	slot := make(chan struct{})
	go func() {
		s.rateLimiter.Take()
		close(slot)
	}()
	select {
	case <-slot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func checkCoverage(codes []string, rows []model.Rate) error {
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		seen[r.Country]++
	}

	var missing []string
	for _, code := range codes {
		switch seen[code] {
		case 0:
			missing = append(missing, code)
		case 1:
		default:
			return internal(nil, "store integrity: %d rates for currency %s", seen[code], code)
		}
	}
	if len(missing) > 0 {
		return rateNotFound(missing)
	}
	return nil
}
