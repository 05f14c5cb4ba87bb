package dashboard

import (
	"context"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
)

// FetchFunc retrieves one raw feed.
type FetchFunc func(ctx context.Context) ([]domain.RawRecord, error)

// FetchAsync starts fetch in the background and returns a channel that
// delivers exactly one Result. The channel is buffered, so an abandoned result
// never blocks the fetching goroutine.
func FetchAsync(ctx context.Context, fetch FetchFunc) <-chan domain.Result[[]domain.RawRecord] {
	ch := make(chan domain.Result[[]domain.RawRecord], 1)
	go func() {
		raws, err := fetch(ctx)
		if err != nil {
			ch <- domain.Failure[[]domain.RawRecord](err)
			return
		}
		ch <- domain.Success(raws)
	}()
	return ch
}
