package extract

import (
	"context"
	"regexp"
	"strings"
)

var (
	quotedRoom = regexp.MustCompile(`["'“‘「『]([^"'”’」』]+)["'”’」』]`)
	namedRoom  = regexp.MustCompile(`([가-힣A-Za-z0-9_\-]+)\s*(?:채팅방|대화방|톡방)(?:의|에서|에|을|를)?`)
)

// notRooms are words that precede 채팅방 without naming one.
var notRooms = toSet(
	"우리", "전체", "모든", "내", "나의", "제", "무슨", "어떤", "어느", "그", "이", "저", "최근", "채팅", "대화",
	"참여", "참여중인", "참여한", "목록", "리스트", "어떤채팅", "몇개", "몇",
)

// Room extracts a chat room name, either quoted or placed before
// 채팅방, 대화방 or 톡방.
type Room struct{}

func (Room) Extract(_ context.Context, text string) (string, bool) {
	if m := quotedRoom.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name, true
		}
	}
	for _, m := range namedRoom.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || notRooms[name] {
			continue
		}
		return name, true
	}
	return "", false
}

// ExtractRoomName runs the room heuristics over text.
func ExtractRoomName(text string) (string, bool) {
	return Room{}.Extract(context.Background(), text)
}
