//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/gemini"
	"github.com/fwojciec/docsync/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestAsker_Integration_ReturnsAnswer(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	source := &mock.Source{
		DocumentsFn: func(context.Context) ([]*docsync.Document, error) {
			return []*docsync.Document{
				{
					Key:       "100-getting-started.md",
					Title:     "Getting Started",
					Content:   "OptiSigns is a digital signage platform. Install the player app on your screen to get started.",
					SourceURL: "https://support.example.com/hc/articles/100",
				},
			}, nil
		},
	}

	asker := gemini.NewAsker(client, source)

	answer, err := asker.Ask(ctx, "What is OptiSigns?")

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Contains(t, answer, "signage")
}
