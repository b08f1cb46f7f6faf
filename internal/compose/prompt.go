// Package compose renders snapshot slices and the final prompt handed to
// the text generator.
package compose

import (
	"fmt"
	"strings"
)

// Persona opens every prompt.
const Persona = `당신은 OURHOUR 그룹웨어의 AI 어시스턴트입니다.
조직의 구성원, 부서, 직책, 프로젝트, 채팅방에 대한 질문에 친절하고 정확하게 한국어로 답변합니다.`

// Guidelines for each kind of question.
const (
	GeneralGuidelines = `- 조직 전체 현황을 묻는 질문에는 요약 정보의 수치를 그대로 사용하세요.
- 부서나 직책별 인원을 물으면 해당 목록을 정리해서 보여주세요.
- 답변은 간결하게, 필요하면 목록 형식으로 작성하세요.`

	PersonGuidelines = `- 특정 인물에 대한 질문입니다. 인물 정보 블록의 내용을 우선 사용하세요.
- 유사한 이름만 찾은 경우 후보를 보여주고 어떤 사람을 찾는지 되물어보세요.
- 해당 직원을 찾을 수 없으면 그렇다고 분명히 알려주세요.`

	ProjectGuidelines = `- 프로젝트에 대한 질문입니다. 프로젝트 정보 블록의 수치와 목록을 그대로 사용하세요.
- 마일스톤 진행률과 이슈 상태를 물으면 해당 항목을 정리해서 보여주세요.
- 특정 프로젝트를 찾지 못했다면 후보 프로젝트를 안내하세요.`

	ChatGuidelines = `- 채팅방 대화 내용을 요약할 때는 주요 주제와 결정 사항 위주로 정리하세요.
- 발신자 이름은 그대로 사용하고, 메시지에 없는 내용은 만들지 마세요.`

	RoomListGuidelines = `- 사용자가 참여 중인 채팅방 목록을 보기 쉽게 나열하세요.
- 특정 채팅방의 대화를 요약하려면 채팅방 이름을 알려달라고 안내하세요.`
)

// RenderFinalPrompt assembles the persona, the information block, the
// guidelines and the verbatim user message.
func RenderFinalPrompt(context, guidelines, userMessage string) string {
	var b strings.Builder
	b.WriteString(Persona)
	b.WriteString("\n\n=== 제공된 정보 ===\n")
	b.WriteString(strings.TrimSpace(context))
	b.WriteString("\n\n=== 답변 지침 ===\n")
	if g := strings.TrimSpace(guidelines); g != "" {
		b.WriteString(g)
		b.WriteString("\n")
	}
	b.WriteString("- 반드시 위에 제공된 정보만을 근거로 답변하세요.\n")
	b.WriteString("- 제공된 정보에 없는 내용은 추측하지 말고, 해당 정보가 없다고 답변하세요.\n")
	fmt.Fprintf(&b, "\n사용자 질문: %s\n답변:", userMessage)
	return b.String()
}

// Join concatenates non-empty context blocks with a blank line between
// them.
func Join(blocks ...string) string {
	var parts []string
	for _, blk := range blocks {
		if s := strings.TrimSpace(blk); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// RelatedContext lists knowledge-base records related to the question.
func RelatedContext(docs []string) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("=== 관련 기록 ===\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s\n", strings.ReplaceAll(strings.TrimSpace(d), "\n", " / "))
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "정보 없음"
	}
	return s
}
