package domain

// Vote is a thumbs-up or thumbs-down rating on a posted menu.
type Vote string

const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

func (v Vote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// InteractiveContext is the opaque state embedded into every interactive
// button and echoed back verbatim by the chat platform when the button is
// pressed. It is the only memory a callback has of its originating
// announcement; the server keeps no session state across the round trip.
type InteractiveContext struct {
	Token    string `json:"token"`
	Date     string `json:"date"`
	Meal     Meal   `json:"meal"`
	Vote     Vote   `json:"vote"`
	ImageURL string `json:"image_url"`
}

// Attachment is a Mattermost message attachment: an image plus optional
// interactive actions.
type Attachment struct {
	Fallback string   `json:"fallback,omitempty"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Actions  []Action `json:"actions,omitempty"`
}

// Action is one interactive button inside an attachment.
type Action struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Integration *Integration `json:"integration,omitempty"`
}

// Integration tells the platform where to POST the callback and what context
// to carry along.
type Integration struct {
	URL     string             `json:"url"`
	Context InteractiveContext `json:"context"`
}

// OutboundMessage is the JSON body of an incoming-webhook post.
type OutboundMessage struct {
	Text        string       `json:"text"`
	Username    string       `json:"username,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// VoteRequest is the callback body the platform POSTs when a button is
// pressed.
type VoteRequest struct {
	UserID   string             `json:"user_id,omitempty"`
	UserName string             `json:"user_name"`
	PostID   string             `json:"post_id,omitempty"`
	Context  InteractiveContext `json:"context"`
}

// VoteUpdate is the callback response. Update replaces the originating
// message's attachment in place; EphemeralText is shown only to the voter
// (used for errors and duplicate submissions, leaving the buttons unchanged).
type VoteUpdate struct {
	Update        *PostUpdate `json:"update,omitempty"`
	EphemeralText string      `json:"ephemeral_text,omitempty"`
}

// PostUpdate carries the replacement message content for an in-place edit.
type PostUpdate struct {
	Message string     `json:"message,omitempty"`
	Props   *PostProps `json:"props,omitempty"`
}

// PostProps holds the replacement attachments of an updated post.
type PostProps struct {
	Attachments []Attachment `json:"attachments"`
}
