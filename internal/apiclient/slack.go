package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
)

// DefaultSlackURL is the Slack Web API root
const DefaultSlackURL = "https://slack.com/api"

// Slack is a bot-token client for the Slack Web API
type Slack struct {
	rest *rest
}

// NewSlack creates a client. An empty baseURL selects DefaultSlackURL.
func NewSlack(baseURL, token string, options ...Option) *Slack {
	if baseURL == "" {
		baseURL = DefaultSlackURL
	}
	r := newRest(baseURL, options)
	r.prepare = func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.validate = slackOK
	return &Slack{rest: r}
}

// Slack answers 200 even for failures and reports them in the body
func slackOK(body []byte) Result {
	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Failure(KindDecode, err.Error())
	}
	if !envelope.OK {
		if envelope.Error == "" {
			envelope.Error = "unknown slack error"
		}
		return Failure(KindAPI, envelope.Error)
	}
	return Success(body)
}

// Message is a chat.postMessage payload. Blocks are passed through as-is.
type Message struct {
	Channel string           `json:"channel"`
	Text    string           `json:"text"`
	Blocks  []map[string]any `json:"blocks,omitempty"`
}

// PostMessage sends a message to a channel
func (s *Slack) PostMessage(ctx context.Context, msg Message) Result {
	return s.rest.post(ctx, "/chat.postMessage", msg)
}

// Channels lists the conversations visible to the bot
func (s *Slack) Channels(ctx context.Context) Result {
	return s.rest.get(ctx, "/conversations.list", nil)
}

// AuthTest checks the token
func (s *Slack) AuthTest(ctx context.Context) Result {
	return s.rest.get(ctx, "/auth.test", nil)
}

// Upload is a files.upload request
type Upload struct {
	Channels string // comma separated channel ids
	Filename string
	Title    string
	Content  []byte
}

// UploadFile shares a file in the given channels as a multipart form
func (s *Slack) UploadFile(ctx context.Context, u Upload) Result {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := [][2]string{{"channels", u.Channels}, {"filename", u.Filename}}
	if u.Title != "" {
		fields = append(fields, [2]string{"title", u.Title})
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return Failure(KindRequest, "failed to build upload form: "+err.Error())
		}
	}
	part, err := form.CreateFormFile("file", u.Filename)
	if err != nil {
		return Failure(KindRequest, "failed to build upload form: "+err.Error())
	}
	if _, err := part.Write(u.Content); err != nil {
		return Failure(KindRequest, "failed to build upload form: "+err.Error())
	}
	if err := form.Close(); err != nil {
		return Failure(KindRequest, "failed to build upload form: "+err.Error())
	}
	return s.rest.send(ctx, http.MethodPost, "/files.upload", nil, &buf, form.FormDataContentType())
}
