package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/gemini"
	"github.com/fwojciec/docsync/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsker_Ask_ReturnsErrorWhenCorpusEmpty(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		DocumentsFn: func(context.Context) ([]*docsync.Document, error) {
			return []*docsync.Document{}, nil
		},
	}

	asker := gemini.NewAsker(nil, source) // nil client ok for this test

	_, err := asker.Ask(context.Background(), "how do I reset my password?")

	require.Error(t, err)
	assert.Equal(t, docsync.ENOTFOUND, docsync.ErrorCode(err))
	assert.Contains(t, docsync.ErrorMessage(err), "no documents")
}

func TestAsker_Ask_PropagatesSourceError(t *testing.T) {
	t.Parallel()

	expectedErr := docsync.Errorf(docsync.EINTERNAL, "disk error")
	source := &mock.Source{
		DocumentsFn: func(context.Context) ([]*docsync.Document, error) {
			return nil, expectedErr
		},
	}

	asker := gemini.NewAsker(nil, source)

	_, err := asker.Ask(context.Background(), "how do I reset my password?")

	require.Error(t, err)
	assert.Equal(t, docsync.EINTERNAL, docsync.ErrorCode(err))
	assert.Contains(t, docsync.ErrorMessage(err), "disk error")
}

func TestAsker_Ask_ReturnsErrorWhenQuestionEmpty(t *testing.T) {
	t.Parallel()

	asker := gemini.NewAsker(nil, nil)

	_, err := asker.Ask(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, docsync.EINVALID, docsync.ErrorCode(err))
	assert.Contains(t, docsync.ErrorMessage(err), "question required")
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "help-center")
	require.NotNil(t, config.Temperature)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	docs := []*docsync.Document{
		{
			Key:       "100-getting-started.md",
			Title:     "Getting Started",
			Content:   "Install the player on your device.",
			SourceURL: "https://support.example.com/hc/articles/100",
		},
		{
			Key:     "200-billing.md",
			Content: "Billing happens monthly.",
		},
	}

	prompt := gemini.BuildUserPrompt(docs, "how do I install?")

	assert.Contains(t, prompt, "<title>Getting Started</title>")
	assert.Contains(t, prompt, "<url>https://support.example.com/hc/articles/100</url>")
	assert.Contains(t, prompt, "Install the player on your device.")
	// Untitled articles fall back to the file key.
	assert.Contains(t, prompt, "<title>200-billing.md</title>")
	assert.Contains(t, prompt, "Question: how do I install?")
}
