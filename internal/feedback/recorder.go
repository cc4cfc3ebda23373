// Package feedback turns interactive-callback invocations into feedback-cell
// mutations, with one-vote-per-identity suppression.
package feedback

import (
	"context"
	"errors"
	"log/slog"

	"menubot/internal/domain"
	"menubot/internal/notify"
)

// User-facing fragments. Everything except a token mismatch is answered with
// an ephemeral notice so the original announcement's buttons stay untouched.
const (
	msgMalformed  = "잘못된 요청이에요. 버튼 정보를 확인할 수 없습니다."
	msgNoRow      = "해당 날짜의 메뉴를 찾을 수 없어요."
	msgDuplicate  = "이미 투표하셨어요! 투표는 한 번만 할 수 있습니다."
	msgStoreError = "투표를 저장하지 못했어요. 잠시 후 다시 시도해주세요."
)

// Recorder processes one interactive-callback invocation at a time and
// mutates the feedback cell of the originating row. Concurrent votes on the
// same row race at the store's last-write-wins granularity; accepted.
type Recorder struct {
	store   domain.MenuStore
	token   string
	baseURL string
	logger  *slog.Logger
}

func NewRecorder(store domain.MenuStore, token, baseURL string, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, token: token, baseURL: baseURL, logger: logger}
}

// Record validates the callback, applies the vote, and returns either an
// in-place update of the announcement's attachment or an ephemeral fragment.
// The only error returned is domain.ErrUnauthorized; every other failure is
// already shaped into a user-visible fragment.
func (r *Recorder) Record(ctx context.Context, req domain.VoteRequest) (*domain.VoteUpdate, error) {
	ic := req.Context
	if ic.Token != r.token {
		return nil, domain.ErrUnauthorized
	}

	voter := req.UserName
	if voter == "" {
		voter = req.UserID
	}
	if ic.Date == "" || !ic.Meal.Valid() || !ic.Vote.Valid() || ic.ImageURL == "" || voter == "" {
		r.logger.Warn("malformed vote context", "date", ic.Date, "meal", ic.Meal, "vote", ic.Vote)
		return &domain.VoteUpdate{EphemeralText: msgMalformed}, nil
	}

	row, err := r.store.FindRow(ctx, ic.Date)
	if errors.Is(err, domain.ErrRowNotFound) {
		r.logger.Warn("vote for unknown date", "date", ic.Date)
		return &domain.VoteUpdate{EphemeralText: msgNoRow}, nil
	}
	if err != nil {
		r.logger.Error("vote row lookup failed", "date", ic.Date, "err", err)
		return &domain.VoteUpdate{EphemeralText: msgStoreError}, nil
	}

	tally := domain.ParseTally(row.Feedback(ic.Meal))
	if tally.Has(voter) {
		return &domain.VoteUpdate{EphemeralText: msgDuplicate}, nil
	}

	tally.Add(ic.Vote, voter)
	if err := r.store.WriteFeedback(ctx, ic.Date, ic.Meal, tally.String()); err != nil {
		r.logger.Error("vote write failed", "date", ic.Date, "meal", ic.Meal, "err", err)
		return &domain.VoteUpdate{EphemeralText: msgStoreError}, nil
	}

	r.logger.Info("vote recorded", "date", ic.Date, "meal", ic.Meal, "vote", ic.Vote, "voter", voter)

	actions := notify.VoteActions(r.baseURL, r.token, ic.Date, ic.Meal, ic.ImageURL,
		tally.Count(domain.VoteUp), tally.Count(domain.VoteDown))
	return &domain.VoteUpdate{
		Update: &domain.PostUpdate{
			Props: &domain.PostProps{
				Attachments: []domain.Attachment{notify.MenuAttachment(ic.Meal, ic.ImageURL, actions)},
			},
		},
	}, nil
}
