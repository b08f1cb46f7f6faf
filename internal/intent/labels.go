// Package intent sorts free-text questions into closed label sets. Every
// classifier returns a label from its tier; failures resolve to the tier
// default rather than an error.
package intent

import (
	"fmt"
	"strings"
)

// Label is one classification outcome.
type Label string

// Primary labels.
const (
	Greeting      Label = "greeting"
	ChatSummary   Label = "chat_summary"
	ProjectQuery  Label = "project_query"
	OrgChartQuery Label = "org_chart_query"
)

// Org-chart secondary labels.
const (
	SpecificPerson Label = "specific_person"
	GeneralQuery   Label = "general_query"
)

// Chat-summary secondary labels.
const (
	ListRooms             Label = "list_rooms"
	SummarizeSpecificRoom Label = "summarize_specific_room"
	GeneralInquiry        Label = "general_inquiry"
)

// Tier is a closed label set with its fallback.
type Tier struct {
	Name    string
	Labels  []Label
	Default Label
	// descriptions are shown to the model, one per label.
	descriptions map[Label]string
}

var (
	PrimaryTier = Tier{
		Name:    "primary",
		Labels:  []Label{Greeting, ChatSummary, ProjectQuery, OrgChartQuery},
		Default: OrgChartQuery,
		descriptions: map[Label]string{
			Greeting:      "인사, 감사, 안부 등 정보 요청이 없는 짧은 말",
			ChatSummary:   "채팅방 목록이나 채팅/대화 내용 요약 요청",
			ProjectQuery:  "프로젝트, 마일스톤, 이슈, 일정, 진행 상황에 대한 질문",
			OrgChartQuery: "구성원, 부서, 직책, 연락처 등 조직에 대한 질문",
		},
	}

	OrgChartTier = Tier{
		Name:    "org_chart",
		Labels:  []Label{SpecificPerson, GeneralQuery},
		Default: GeneralQuery,
		descriptions: map[Label]string{
			SpecificPerson: "특정 인물 한 명에 대한 질문 (연락처, 부서, 직책 등)",
			GeneralQuery:   "조직 전체, 부서, 직책, 인원 통계 등 일반 질문",
		},
	}

	ChatTier = Tier{
		Name:    "chat_summary",
		Labels:  []Label{ListRooms, SummarizeSpecificRoom, GeneralInquiry},
		Default: GeneralInquiry,
		descriptions: map[Label]string{
			ListRooms:             "참여 중인 채팅방 목록 요청",
			SummarizeSpecificRoom: "이름이 지정된 특정 채팅방의 대화 요약 요청",
			GeneralInquiry:        "그 밖의 채팅 관련 질문",
		},
	}
)

// Valid reports whether l belongs to the tier.
func (t Tier) Valid(l Label) bool {
	for _, v := range t.Labels {
		if v == l {
			return true
		}
	}
	return false
}

// Parse normalizes raw model output and validates it. It trims, lower-cases
// and strips surrounding quotes and punctuation; only the first line is
// considered.
func (t Tier) Parse(raw string) (Label, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.Trim(s, " \t\"'`.,!?:;()[]{}<>*"))
	l := Label(s)
	if !t.Valid(l) {
		return t.Default, false
	}
	return l, true
}

// prompt renders the single-shot classification prompt for text.
func (t Tier) prompt(text string) string {
	var b strings.Builder
	b.WriteString("다음 사용자 메시지를 아래 레이블 중 하나로 분류하세요.\n\n")
	for _, l := range t.Labels {
		fmt.Fprintf(&b, "- %s: %s\n", l, t.descriptions[l])
	}
	fmt.Fprintf(&b, "\n사용자 메시지: %s\n\n", text)
	b.WriteString("레이블 이름 하나만 출력하세요. 다른 설명은 쓰지 마세요.")
	return b.String()
}
