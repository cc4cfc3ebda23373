package domain

// ReplyType is the visibility scope of a slash-command reply.
type ReplyType string

const (
	// ReplyInChannel is posted to the whole channel.
	ReplyInChannel ReplyType = "in_channel"
	// ReplyEphemeral is shown only to the requester.
	ReplyEphemeral ReplyType = "ephemeral"
)

// Reply is a slash-command response. Visibility is fixed by the constructor
// used: only successful menu and digest lookups go through InChannel, so the
// scope invariant is enforced by construction rather than by convention.
// The JSON shape matches what Mattermost expects back from a slash command.
type Reply struct {
	Type        ReplyType    `json:"response_type"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// InChannel builds a channel-visible reply.
func InChannel(text string, attachments ...Attachment) Reply {
	return Reply{Type: ReplyInChannel, Text: text, Attachments: attachments}
}

// Ephemeral builds a requester-only reply. Help, absence, and failure notices
// must use this.
func Ephemeral(text string) Reply {
	return Reply{Type: ReplyEphemeral, Text: text}
}
