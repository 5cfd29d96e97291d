package index

import (
	"errors"
	"fmt"
)

var ErrStorageNotConfigured = errors.New("index: storage not configured")

// ArticleNotFoundError signals a slug lookup that matched no indexed article.
type ArticleNotFoundError struct {
	Slug string
}

func (e *ArticleNotFoundError) Error() string {
	return fmt.Sprintf("index: article %q not found", e.Slug)
}

// IsNotFound reports whether err wraps an ArticleNotFoundError.
func IsNotFound(err error) bool {
	var notFound *ArticleNotFoundError
	return errors.As(err, &notFound)
}
