// Package dispatch routes a classified question to its handler and turns
// every outcome, including failures, into answer text.
package dispatch

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// User-facing messages.
const (
	GreetingMessage       = "안녕하세요! OURHOUR AI 어시스턴트입니다. 조직 구성원, 부서, 프로젝트, 채팅방에 대해 궁금한 점을 물어보세요."
	EmptyMessage          = "질문 내용을 입력해주세요."
	ApologyMessage        = "죄송합니다. 요청을 처리하는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	OrgUnavailableMessage = "조직 정보를 불러올 수 없습니다. 잠시 후 다시 시도해주세요."
	TokenExpiredMessage   = "인증 토큰이 만료되었습니다. 다시 로그인해주세요."
	TokenInvalidMessage   = "유효하지 않은 인증 토큰입니다. 다시 로그인해주세요."
	TokenMissingMessage   = "인증 정보가 부족합니다. 로그인 후 다시 시도해주세요."
	ForbiddenMessage      = "해당 조직의 정보에 접근할 권한이 없습니다."
)

// ErrMissingToken is returned by handlers that need the remote API when
// the request carries no bearer token.
var ErrMissingToken = errors.New("dispatch: no auth token")

// Request is the uniform input of every handler.
type Request struct {
	Message   string
	MemberID  int64
	OrgID     int64
	AuthToken string
	RequestID string
}

// Handler answers one request.
type Handler func(ctx context.Context, req Request) (string, error)

// Table maps each primary label to its handler.
type Table map[intent.Label]Handler

// Lookup returns the handler for label, falling back to the org-chart
// handler for labels the table does not know.
func (t Table) Lookup(label intent.Label) (intent.Label, Handler) {
	if h, ok := t[label]; ok {
		return label, h
	}
	return intent.OrgChartQuery, t[intent.OrgChartQuery]
}

// Dispatch runs the handler for label. Handler errors and panics are
// logged with the label and converted to a fixed message; nothing
// propagates to the caller.
func (s *Service) Dispatch(ctx context.Context, label intent.Label, req Request) (answer string) {
	label, h := s.table.Lookup(label)
	log := s.log.With("label", string(label), "request_id", req.RequestID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("dispatch: handler panicked", "panic", r, "stack", string(debug.Stack()))
			answer = ApologyMessage
		}
	}()

	if h == nil {
		log.Error("dispatch: no handler registered")
		return ApologyMessage
	}
	out, err := h(ctx, req)
	if err != nil {
		log.Error("dispatch: handler failed", "error", err)
		return UserMessage(err)
	}
	return out
}

// UserMessage maps a handler error to the message shown to the user.
// Authentication failures win over the organization-unavailable message
// because a rejected token also fails the organization fetch.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingToken), errors.Is(err, auth.ErrTokenMissing):
		return TokenMissingMessage
	case errors.Is(err, ourhour.ErrTokenExpired), errors.Is(err, auth.ErrTokenExpired):
		return TokenExpiredMessage
	case errors.Is(err, ourhour.ErrUnauthorized), errors.Is(err, auth.ErrTokenInvalid):
		return TokenInvalidMessage
	case errors.Is(err, ourhour.ErrForbidden):
		return ForbiddenMessage
	case errors.Is(err, snapshot.ErrOrgUnavailable):
		return OrgUnavailableMessage
	}
	return ApologyMessage
}
