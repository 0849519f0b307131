package segmenter

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

var (
	encoder  atomic.Pointer[tiktoken.Tiktoken]
	loadOnce sync.Once
	loaded   = make(chan struct{})
	loadErr  error
)

// WarmTokenizer loads the encoder used by EstimateTokens. The first load may
// download BPE ranks, so it runs in the background; WarmTokenizer waits until
// the load finishes or ctx ends. Later calls share the same load.
func WarmTokenizer(ctx context.Context) error {
	loadOnce.Do(func() {
		go func() {
			enc, err := tiktoken.GetEncoding(tokenEncoding)
			if err == nil {
				encoder.Store(enc)
			}
			loadErr = err
			close(loaded)
		}()
	})

	select {
	case <-loaded:
		return loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EstimateTokens returns the token count for text. It never loads the
// encoder itself; until WarmTokenizer succeeds it assumes ~4 chars per token.
func EstimateTokens(text string) int {
	if enc := encoder.Load(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return heuristicTokens(text)
}

func heuristicTokens(text string) int {
	return (len(text) + 3) / 4
}
