package extract

import (
	"context"
	"regexp"
	"strings"
)

// projectKeywords mark a nearby token as a project name, in priority order.
var projectKeywords = []string{"프로젝트", "프젝", "개발", "시스템", "서비스", "앱", "웹사이트", "플랫폼"}

type keywordPatterns struct {
	keyword  string
	patterns []*regexp.Regexp
}

var projectPatterns = buildProjectPatterns()

func buildProjectPatterns() []keywordPatterns {
	const token = `([가-힣A-Za-z0-9\-_]+)`
	out := make([]keywordPatterns, 0, len(projectKeywords))
	for _, kw := range projectKeywords {
		q := regexp.QuoteMeta(kw)
		out = append(out, keywordPatterns{
			keyword: kw,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(token + `\s*` + q),
				regexp.MustCompile(q + `\s*` + token),
				regexp.MustCompile(token + `\s*` + q + `의`),
				regexp.MustCompile(q + `\s*` + token + `의`),
			},
		})
	}
	return out
}

// notProjects are tokens that sit next to a project keyword without naming
// a project.
var notProjects = toSet(
	"우리", "이", "그", "저", "이번", "모든", "전체", "내", "나의", "제", "진행", "진행중인", "참여", "참여중인",
	"목록", "리스트", "현황", "상태", "정보", "알려줘", "알려주세요", "보여줘", "보여주세요", "어떤", "무슨",
	"몇개", "몇", "있어", "있나요", "관련", "담당", "중", "의", "는", "은", "이슈", "마일스톤", "참가자",
	"팀", "회사", "조직", "현재", "새", "새로운", "신규", "내가", "나",
)

// Project extracts a project name adjacent to a project keyword.
type Project struct{}

func (Project) Extract(_ context.Context, text string) (string, bool) {
	for _, kp := range projectPatterns {
		if !strings.Contains(text, kp.keyword) {
			continue
		}
		for _, re := range kp.patterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				name := strings.TrimSpace(m[1])
				if name == "" || notProjects[name] || isProjectKeyword(name) {
					continue
				}
				return name, true
			}
		}
	}
	return "", false
}

func isProjectKeyword(s string) bool {
	for _, kw := range projectKeywords {
		if s == kw || strings.HasPrefix(s, kw) {
			return true
		}
	}
	return false
}
