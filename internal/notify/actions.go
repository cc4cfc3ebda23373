package notify

import (
	"fmt"
	"strings"

	"menubot/internal/domain"
)

// VoteActions builds the thumbs-up/down buttons for a menu announcement.
// Each button embeds the full InteractiveContext so the callback needs no
// server-side session. Labels carry the current counts.
func VoteActions(baseURL, token, date string, meal domain.Meal, imageURL string, up, down int) []domain.Action {
	voteURL := strings.TrimRight(baseURL, "/") + "/vote"
	action := func(vote domain.Vote, name string) domain.Action {
		return domain.Action{
			ID:   "vote-" + string(vote),
			Name: name,
			Integration: &domain.Integration{
				URL: voteURL,
				Context: domain.InteractiveContext{
					Token:    token,
					Date:     date,
					Meal:     meal,
					Vote:     vote,
					ImageURL: imageURL,
				},
			},
		}
	}
	return []domain.Action{
		action(domain.VoteUp, fmt.Sprintf("👍 %d", up)),
		action(domain.VoteDown, fmt.Sprintf("👎 %d", down)),
	}
}

// MenuAttachment wraps a menu image (and optional vote buttons) in the
// attachment shape Mattermost renders.
func MenuAttachment(meal domain.Meal, imageURL string, actions []domain.Action) domain.Attachment {
	return domain.Attachment{
		Fallback: fmt.Sprintf("오늘의 %s 메뉴 이미지입니다. Mattermost에서 확인해주세요.", meal.Label()),
		ImageURL: imageURL,
		Actions:  actions,
	}
}
