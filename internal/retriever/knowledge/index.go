package knowledge

import (
	"context"
	"errors"
)

// GeneralCategory names the index every registry must have.
const GeneralCategory = "general"

var ErrNoGeneralIndex = errors.New("no index for the general category")

// Index returns up to k snippets for query, most relevant first.
type Index interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}
