package gateway

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/askiada/go-deckbuilder/pkg/workflow"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	g := &Gemini{}

	tcs := map[string]struct {
		err           error
		wantKind      Kind
		wantPermanent bool
	}{
		"deadline exceeded": {
			err:      context.DeadlineExceeded,
			wantKind: KindTimeout,
		},
		"unauthorized": {
			err:           genai.APIError{Code: 401, Message: "bad key"},
			wantKind:      KindAuth,
			wantPermanent: true,
		},
		"forbidden": {
			err:           genai.APIError{Code: 403, Message: "no access"},
			wantKind:      KindAuth,
			wantPermanent: true,
		},
		"rate limited": {
			err:      genai.APIError{Code: 429, Message: "slow down"},
			wantKind: KindRateLimit,
		},
		"gateway timeout": {
			err:      genai.APIError{Code: 504, Message: "upstream timeout"},
			wantKind: KindTimeout,
		},
		"server error": {
			err:      genai.APIError{Code: 503, Message: "overloaded"},
			wantKind: KindUnavailable,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := g.classify(tc.err)
			require.Error(t, got)

			kind, ok := KindOf(got)
			require.True(t, ok)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantPermanent, workflow.IsPermanent(got))
		})
	}
}

func TestClassifyUnknownError(t *testing.T) {
	t.Parallel()

	g := &Gemini{}
	cause := errors.New("connection reset")

	got := g.classify(cause)
	require.Error(t, got)
	assert.ErrorIs(t, got, cause)

	_, ok := KindOf(got)
	assert.False(t, ok)
	assert.False(t, workflow.IsPermanent(got))
}

func TestPayload(t *testing.T) {
	t.Parallel()

	g := &Gemini{}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: `{"pages": []}`}}}},
		},
	}
	body, err := g.payload(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pages": []}`, string(body))
}

func TestPayloadEmptyResponse(t *testing.T) {
	t.Parallel()

	g := &Gemini{}

	_, err := g.payload(&genai.GenerateContentResponse{})
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidResponse, kind)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGemini(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
