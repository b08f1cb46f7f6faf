package dispatch

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/C1Z4/ourhour-chatbot/internal/compose"
	"github.com/C1Z4/ourhour-chatbot/internal/extract"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
	"github.com/C1Z4/ourhour-chatbot/internal/namematch"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// chatMessageLimit is how many recent messages a room summary reads.
const chatMessageLimit = 50

func (s *Service) handleOrgChartQuery(ctx context.Context, req Request) (string, error) {
	sess, err := s.open(ctx, req)
	if err != nil {
		return "", err
	}

	names := sess.snap.MemberNames()
	sub := s.opts.OrgChart.Classify(intent.WithKnownNames(ctx, names), req.Message)
	s.log.Debug("org chart query", "request_id", req.RequestID, "secondary", string(sub))

	if sub == intent.SpecificPerson {
		finder := extract.FirstOf(mentioned(names), s.opts.Person)
		if name, ok := finder.Extract(ctx, req.Message); ok {
			return s.respond(ctx, sess, req, compose.PersonContext(sess.snap, name), compose.PersonGuidelines)
		}
	}
	return s.respond(ctx, sess, req, snapshot.GenerateSummary(sess.snap), compose.GeneralGuidelines)
}

func (s *Service) handleProjectQuery(ctx context.Context, req Request) (string, error) {
	sess, err := s.open(ctx, req)
	if err != nil {
		return "", err
	}

	finder := extract.FirstOf(mentioned(sess.snap.ProjectNames()), s.opts.Project)
	if name, ok := finder.Extract(ctx, req.Message); ok {
		return s.respond(ctx, sess, req, compose.ProjectContext(sess.snap, name), compose.ProjectGuidelines)
	}
	return s.respond(ctx, sess, req, snapshot.GenerateSummary(sess.snap), compose.ProjectGuidelines)
}

func (s *Service) handleChatSummary(ctx context.Context, req Request) (string, error) {
	sess, err := s.open(ctx, req)
	if err != nil {
		return "", err
	}

	rooms, err := sess.client.ChatRooms(ctx, req.OrgID)
	if err != nil {
		return "", fmt.Errorf("listing chat rooms: %w", err)
	}

	sub := s.opts.Chat.Classify(ctx, req.Message)
	s.log.Debug("chat summary query", "request_id", req.RequestID, "secondary", string(sub), "rooms", len(rooms))

	switch sub {
	case intent.SummarizeSpecificRoom:
		name, ok := s.opts.Room.Extract(ctx, req.Message)
		if !ok {
			break
		}
		room, found := findRoom(rooms, name)
		if !found {
			body := compose.Join(
				fmt.Sprintf("'%s' 채팅방을 찾을 수 없습니다.", name),
				compose.ChatRoomsContext(rooms),
			)
			return s.respond(ctx, sess, req, body, compose.RoomListGuidelines)
		}
		page, err := sess.client.ChatMessages(ctx, req.OrgID, room.RoomID, ourhour.PageQuery{Page: 0, Size: chatMessageLimit})
		if err != nil {
			return "", fmt.Errorf("reading chat room %d: %w", room.RoomID, err)
		}
		return s.respond(ctx, sess, req, compose.ChatRoomContext(room, page.Items()), compose.ChatGuidelines)

	case intent.ListRooms:
		return s.respond(ctx, sess, req, compose.ChatRoomsContext(rooms), compose.RoomListGuidelines)
	}
	return s.respond(ctx, sess, req, compose.ChatRoomsContext(rooms), compose.ChatGuidelines)
}

// mentioned finds the longest known name written verbatim in the text.
func mentioned(names []string) extract.Extractor {
	return extract.Func(func(_ context.Context, text string) (string, bool) {
		best := ""
		for _, n := range names {
			if utf8.RuneCountInString(n) < 2 || !strings.Contains(text, n) {
				continue
			}
			if utf8.RuneCountInString(n) > utf8.RuneCountInString(best) {
				best = n
			}
		}
		return best, best != ""
	})
}

// findRoom resolves a room name loosely; "개발팀" finds "개발팀 채팅방".
func findRoom(rooms []ourhour.ChatRoom, name string) (ourhour.ChatRoom, bool) {
	names := make([]string, len(rooms))
	for i, r := range rooms {
		names[i] = r.Name
	}
	m, ok := namematch.New(names).FindBestMatch(name, namematch.DefaultThreshold)
	if !ok {
		return ourhour.ChatRoom{}, false
	}
	for _, r := range rooms {
		if r.Name == m.Name {
			return r, true
		}
	}
	return ourhour.ChatRoom{}, false
}
