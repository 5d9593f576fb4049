package tokenizer

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts tokens locally with a BPE encoding. Counts approximate
// providers whose tokenizer is not public.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var _ Counter = &TiktokenCounter{}

func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

func (t *TiktokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	return len(t.encoding.Encode(text, nil, nil)), nil
}
