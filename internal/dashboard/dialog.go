package dashboard

import "context"

// Icon tags the tone of a dialog.
type Icon string

const (
	IconWarning Icon = "warning"
	IconSuccess Icon = "success"
	IconError   Icon = "error"
)

// Prompt is a modal question with two labelled answers.
type Prompt struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Icon         Icon   `json:"icon"`
	ConfirmLabel string `json:"confirm_label"`
	CancelLabel  string `json:"cancel_label"`
}

// Notice is a modal message the viewer only dismisses.
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  Icon   `json:"icon"`
}

// Dialog presents prompts and notices to whoever drives the dashboard.
type Dialog interface {
	// Confirm blocks until the viewer answers and reports whether they confirmed.
	Confirm(ctx context.Context, p Prompt) bool
	Notify(ctx context.Context, n Notice)
}

// Recorder is a Dialog that answers every prompt with a fixed choice and
// keeps what it was shown. Surfaces that confirm out of band (a separate
// confirmation page, a query flag, a modal already answered) use it to replay
// the answer and collect the resulting notices.
type Recorder struct {
	Answer  bool
	Prompts []Prompt
	Notices []Notice
}

// Confirm records p and returns the preset answer.
func (r *Recorder) Confirm(_ context.Context, p Prompt) bool {
	r.Prompts = append(r.Prompts, p)
	return r.Answer
}

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.Notices = append(r.Notices, n)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}
