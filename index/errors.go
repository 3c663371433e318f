package index

import (
	"errors"
	"fmt"

	"github.com/poiesic/gait/core"
)

var (
	// ErrEmptyCorpus indicates Fit was called with no documents.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrNoTokens indicates the corpus produced no usable vocabulary terms.
	ErrNoTokens = errors.New("no tokens found in corpus")
	// ErrNotFitted indicates Transform was called before Fit. It matches
	// core.ErrIndexNotReady under errors.Is.
	ErrNotFitted = fmt.Errorf("%w: vectorizer not fitted", core.ErrIndexNotReady)
)
