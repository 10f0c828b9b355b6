package openresponses

// ReasoningLevel describes how much of a model's reasoning is visible to the client.
// Levels are ordered by fidelity: None < Encrypted < Summary < Raw.
type ReasoningLevel int

const (
	ReasoningNone ReasoningLevel = iota
	ReasoningEncrypted
	ReasoningSummary
	ReasoningRaw
)

// String returns the lowercase level name.
func (l ReasoningLevel) String() string {
	switch l {
	case ReasoningRaw:
		return "raw"
	case ReasoningSummary:
		return "summary"
	case ReasoningEncrypted:
		return "encrypted"
	default:
		return "none"
	}
}

// EncryptedPlaceholder is the text reported for encrypted reasoning.
const EncryptedPlaceholder = "[encrypted]"

// Classification is the result of classifying one item.
type Classification struct {
	Level ReasoningLevel
	Text  string
	// Note is set when a reasoning item matched none of the known formats.
	Note string
}

// Classify assigns a visibility level to item and extracts its text.
// Rules apply in order, first match wins:
//
//  1. not a reasoning item: None
//  2. content present and encrypted_content absent: Raw, content
//  3. summary present: Summary, summary
//  4. encrypted_content present: Encrypted, "[encrypted]"
//  5. otherwise: None, with an "unrecognized" note
//
// Empty strings count as absent.
func Classify(item Item) Classification {
	r, ok := item.(*Reasoning)
	if !ok || r == nil {
		return Classification{Level: ReasoningNone}
	}
	switch {
	case present(r.Content) && !present(r.EncryptedContent):
		return Classification{Level: ReasoningRaw, Text: *r.Content}
	case present(r.Summary):
		return Classification{Level: ReasoningSummary, Text: *r.Summary}
	case present(r.EncryptedContent):
		return Classification{Level: ReasoningEncrypted, Text: EncryptedPlaceholder}
	default:
		return Classification{Level: ReasoningNone, Note: "unrecognized reasoning format"}
	}
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// EstimateTokens approximates the token count of text as len(text)/4 bytes,
// rounded down. It is a display heuristic, not a tokenizer, and must not be
// used for billing.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// ReasoningAnalysis summarizes reasoning visibility over a whole response.
type ReasoningAnalysis struct {
	// Level is the highest fidelity observed among the reasoning items.
	Level           ReasoningLevel
	Items           []*Reasoning
	Classifications []Classification
	// EstimatedTokens sums EstimateTokens over Raw and Summary items only.
	EstimatedTokens int
	Details         string
}

// AnalyzeReasoning classifies every reasoning item in resp.
func AnalyzeReasoning(resp *Response) ReasoningAnalysis {
	items := resp.ReasoningItems()
	if len(items) == 0 {
		return ReasoningAnalysis{
			Level:   ReasoningNone,
			Details: "No reasoning items found in response.",
		}
	}

	a := ReasoningAnalysis{Items: items, Classifications: make([]Classification, len(items))}
	for i, item := range items {
		c := Classify(item)
		a.Classifications[i] = c
		if c.Level > a.Level {
			a.Level = c.Level
		}
		if c.Level == ReasoningRaw || c.Level == ReasoningSummary {
			a.EstimatedTokens += EstimateTokens(c.Text)
		}
	}
	a.Details = levelDetails[a.Level]
	return a
}

var levelDetails = map[ReasoningLevel]string{
	ReasoningRaw:       "Full raw reasoning traces available. This model provides complete transparency.",
	ReasoningSummary:   "Summarized reasoning available. Raw traces are not exposed.",
	ReasoningEncrypted: "Reasoning is encrypted and not accessible to the client.",
	ReasoningNone:      "Unknown reasoning format.",
}
