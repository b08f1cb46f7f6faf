package intent

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/C1Z4/ourhour-chatbot/internal/extract"
)

// Classifier assigns a label from one tier. Implementations never return
// a label outside their tier.
type Classifier interface {
	Classify(ctx context.Context, text string) Label
}

// greetingMaxRunes bounds the length of text that can still be a greeting.
const greetingMaxRunes = 15

var (
	greetingTokens     = []string{"안녕", "반가", "반갑", "하이", "헬로", "고마워", "고맙", "감사합니다", "감사해요", "감사드", "수고"}
	greetingWords      = []string{"hello", "hi", "hey", "thanks"}
	summaryTokens      = []string{"요약", "정리", "간추", "브리핑", "summary", "summarize"}
	conversationTokens = []string{"채팅", "대화", "메시지", "메세지", "채팅방", "대화방", "chat"}
	roomTokens         = []string{"채팅방", "대화방", "톡방"}
	projectTokens      = []string{
		"프로젝트", "프젝", "마일스톤", "이슈", "일정", "진행", "진척", "스프린트", "작업", "태스크",
		"깃허브", "github", "레포", "저장소", "마감",
	}
	listTokens        = []string{"목록", "리스트", "전체", "모든", "모두", "몇 명", "몇명", "통계", "별로", "부서별", "직책별", "어떤", "무슨", "뭐 있", "뭐가 있"}
	personFieldTokens = []string{"전화번호", "연락처", "이메일", "메일", "핸드폰", "휴대폰", "라는 사람", "이라는", "씨 ", "님 "}
)

// IsGreeting reports whether text is a short greeting.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" || utf8.RuneCountInString(t) >= greetingMaxRunes {
		return false
	}
	return hasGreetingToken(t) || hasWord(t, greetingWords)
}

// orgUnitSuffixes turn a word into a department name: "감사팀" is the audit
// team, not thanks.
var orgUnitSuffixes = []string{"팀", "부", "실", "과", "본부"}

// hasGreetingToken finds a greeting token that is not the stem of an
// organization unit.
func hasGreetingToken(t string) bool {
	for _, tok := range greetingTokens {
		for rest := t; ; {
			i := strings.Index(rest, tok)
			if i < 0 {
				break
			}
			rest = rest[i+len(tok):]
			if !hasAnyPrefix(rest, orgUnitSuffixes) {
				return true
			}
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Heuristic classifies with keyword rules for one tier.
type Heuristic struct {
	tier Tier
}

// NewHeuristic returns a keyword classifier for tier.
func NewHeuristic(tier Tier) *Heuristic {
	return &Heuristic{tier: tier}
}

func (h *Heuristic) Classify(ctx context.Context, text string) Label {
	t := strings.ToLower(strings.TrimSpace(text))
	switch h.tier.Name {
	case PrimaryTier.Name:
		return classifyPrimary(t)
	case OrgChartTier.Name:
		return classifyOrgChart(ctx, t)
	case ChatTier.Name:
		return classifyChat(t)
	}
	return h.tier.Default
}

func classifyPrimary(t string) Label {
	switch {
	case IsGreeting(t):
		return Greeting
	case containsAny(t, summaryTokens) && containsAny(t, conversationTokens),
		containsAny(t, roomTokens):
		return ChatSummary
	case containsAny(t, projectTokens):
		return ProjectQuery
	}
	return OrgChartQuery
}

func classifyOrgChart(ctx context.Context, t string) Label {
	for _, name := range KnownNames(ctx) {
		if utf8.RuneCountInString(name) >= 2 && strings.Contains(t, strings.ToLower(name)) {
			return SpecificPerson
		}
	}
	switch {
	case containsAny(t, listTokens):
		return GeneralQuery
	case containsAny(t+" ", personFieldTokens):
		return SpecificPerson
	}
	return GeneralQuery
}

func classifyChat(t string) Label {
	if _, ok := extract.ExtractRoomName(t); ok {
		return SummarizeSpecificRoom
	}
	if containsAny(t, roomTokens) && (containsAny(t, listTokens) || !containsAny(t, summaryTokens)) {
		return ListRooms
	}
	return GeneralInquiry
}

type knownNamesKey struct{}

// WithKnownNames attaches roster names to ctx. The org-chart heuristic
// treats a message mentioning one of them as a question about that person.
func WithKnownNames(ctx context.Context, names []string) context.Context {
	return context.WithValue(ctx, knownNamesKey{}, names)
}

// KnownNames returns the names attached with WithKnownNames.
func KnownNames(ctx context.Context) []string {
	names, _ := ctx.Value(knownNamesKey{}).([]string)
	return names
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// hasWord matches ASCII tokens on word boundaries so "hi" does not fire
// inside "this".
func hasWord(s string, words []string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '!' || r == '?' || r == '.' || r == ','
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
