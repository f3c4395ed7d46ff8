package models

type PromptKind string

const (
	PromptImage PromptKind = "image"
	PromptVideo PromptKind = "video"
)

// Valid reports whether k is one of the stored prompt kinds.
func (k PromptKind) Valid() bool {
	return k == PromptImage || k == PromptVideo
}

// MediaPrompt is a stored media reference with a speaking or writing cue.
type MediaPrompt struct {
	ID     int64      `json:"id" yaml:"-"`
	Kind   PromptKind `json:"type" yaml:"kind"`
	URL    string     `json:"url" yaml:"url"`
	Prompt string     `json:"prompt" yaml:"prompt"`
}
