package api

import (
	"pulsett/app/service/outbox"
	"pulsett/app/service/reply"
)

type textRequest struct {
	Text string `json:"text" validate:"max=4096"`
}

type visionRequest struct {
	Label string `json:"label" validate:"max=64"`
}

type replyResponse struct {
	Text string `json:"text"`
	Rich bool   `json:"rich"`
}

type outboxResponse struct {
	Messages []outbox.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(r reply.Reply) replyResponse {
	return replyResponse{
		Text: r.Text,
		Rich: r.Rich,
	}
}
