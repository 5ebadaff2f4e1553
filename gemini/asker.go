// Package gemini answers questions about the synced corpus using
// Google Gemini and counts tokens with its local tokenizer.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docsync"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Asker implements docsync.Asker at compile time.
var _ docsync.Asker = (*Asker)(nil)

// Asker implements docsync.Asker using Google Gemini. Documents come
// from the local corpus archive rather than the indexed store, so
// answers reflect exactly what the last sync wrote.
type Asker struct {
	client *genai.Client
	source docsync.Source
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, source docsync.Source) *Asker {
	return &Asker{client: client, source: source}
}

// Ask answers a natural language question about the help-center
// corpus.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", docsync.Errorf(docsync.EINVALID, "question required")
	}

	docs, err := a.source.Documents(ctx)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", docsync.Errorf(docsync.ENOTFOUND, "no documents in corpus, run sync first")
	}

	prompt := BuildUserPrompt(docs, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docsync.Errorf(docsync.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a support assistant answering questions about a product's help-center documentation. Answer based only on the articles provided. Cite the article URL when it is available. If the answer is not in the articles, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the articles and
// the question.
func BuildUserPrompt(docs []*docsync.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<articles>\n")
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.Key
		}
		sb.WriteString("<article>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<url>%s</url>\n", doc.SourceURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", doc.Content)
		sb.WriteString("</article>\n")
	}
	sb.WriteString("</articles>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
