package tokenizer

import (
	"sync"
	"unicode/utf8"

	"storyforge/sources/tracing"

	"github.com/pkoukk/tiktoken-go"
)

const encoding = "o200k_base"

var (
	once sync.Once
	tkm  *tiktoken.Tiktoken
)

// the encoding ranks are fetched on first use, so loading is deferred until a count is needed
func encoder(log *tracing.Logger) *tiktoken.Tiktoken {
	once.Do(func() {
		enc, err := tiktoken.GetEncoding(encoding)
		if err != nil {
			log.W("Tokenizer unavailable, falling back to estimation", tracing.InnerError, err)
			return
		}
		tkm = enc
	})
	return tkm
}

func Tokens(log *tracing.Logger, text string) int {
	if text == "" {
		return 0
	}

	return tracing.ReportExecutionForRIn(log,
		func() int {
			if enc := encoder(log); enc != nil {
				return len(enc.Encode(text, nil, nil))
			}
			return Estimate(text)
		},
		func(l *tracing.Logger, tokens int) { l.D("Tokens counted", tracing.AiTokens, tokens) },
	)
}

// Estimate is the four-characters-per-token rule of thumb.
func Estimate(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}
