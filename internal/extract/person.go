package extract

import (
	"context"
	"regexp"
	"strings"
)

// personPatterns are tried in order; the longest surviving capture across
// all of them wins.
var personPatterns = []*regexp.Regexp{
	// Common surname followed by one to three syllables, optionally with a
	// particle, honorific or job title.
	regexp.MustCompile(`([` + commonSurnames + `]` +
		`[가-힣]{1,3})(?:의|은|는|이|가|씨|님|사원|대리|과장|부장|팀장|이사|상무|전무|사장)?`),
	// "X라는 사람", "X이라는".
	regexp.MustCompile(`([가-힣]{2,4})(?:라는 사람|이라는|라는)`),
	// A name followed by the field being asked about.
	regexp.MustCompile(`([가-힣]{2,4})(?:의|은|는|이|가)?\s*(?:직책|직급|부서|연락처|전화번호|이메일)`),
	// Any standalone two to four syllable word.
	regexp.MustCompile(`([가-힣]{2,4})(?:[^\w가-힣]|$)`),
}

const commonSurnames = "김이박최정강조윤장임한오서신권황안송전홍유고문양손배백허성민노하차"

// particles that may trail a captured name.
var trailingParticles = []string{"하고", "의", "은", "는", "이", "가", "을", "를", "도", "에", "랑", "와", "과", "씨", "님"}

// orgUnitEndings mark department words such as 개발팀 or 기획실. 부 and 실
// also end given names (영실), so those two only count when the word does
// not start with a common surname.
var (
	orgUnitEndings     = []string{"팀", "본부", "부서"}
	weakOrgUnitEndings = []string{"부", "실"}
)

// notNames are words the patterns can capture that are never people:
// contact fields, request verbs and other question vocabulary.
var notNames = toSet(
	"전화번호", "연락처", "이메일", "메일", "번호", "부서", "직책", "직급", "소속", "역할", "이름", "정보",
	"알려줘", "알려주세요", "알려줄래", "찾아줘", "찾아주세요", "보여줘", "보여주세요", "말해줘",
	"누구", "누구야", "누구예요", "누구인가요", "누군가요", "어디", "무엇", "뭐야", "무슨", "어떤", "어느",
	"있어", "있나요", "있어요", "사람", "직원", "담당자", "구성원", "멤버", "사원", "대리", "과장", "부장",
	"팀장", "이사", "상무", "전무", "사장", "목록", "리스트", "전체", "모든", "모두", "현황", "통계",
	"몇명", "인원", "우리", "회사", "조직", "조직도", "부서별", "직책별", "프로젝트", "이슈", "마일스톤",
	"안녕", "안녕하세요", "감사", "고마워", "이번", "지금", "오늘", "혹시", "그리고", "그럼",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Person extracts a person name using Korean naming heuristics.
type Person struct{}

func (Person) Extract(_ context.Context, text string) (string, bool) {
	best := ""
	bestPos := -1
	for _, re := range personPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if loc[2] < 0 {
				continue
			}
			name := cleanPersonCandidate(text[loc[2]:loc[3]])
			if name == "" {
				continue
			}
			n := len([]rune(name))
			b := len([]rune(best))
			if n > b || (n == b && loc[2] < bestPos) {
				best, bestPos = name, loc[2]
			}
		}
	}
	return best, best != ""
}

// cleanPersonCandidate strips a trailing particle and rejects vocabulary
// words. It returns "" when the candidate is not a plausible name.
func cleanPersonCandidate(s string) string {
	s = strings.TrimSpace(s)
	if notNames[s] {
		return ""
	}
	for _, p := range trailingParticles {
		stem := strings.TrimSuffix(s, p)
		if stem == s {
			continue
		}
		// 은 and 이 also end many given names (지은, 민이); only strip them
		// from captures long enough to still hold a full name.
		n := len([]rune(stem))
		if n >= 3 || (n == 2 && p != "은" && p != "이") {
			s = stem
		}
		break
	}
	if len([]rune(s)) < 2 || notNames[s] || isOrgUnit(s) {
		return ""
	}
	return s
}

func isOrgUnit(s string) bool {
	for _, e := range orgUnitEndings {
		if strings.HasSuffix(s, e) {
			return true
		}
	}
	first := []rune(s)[0]
	if strings.ContainsRune(commonSurnames, first) {
		return false
	}
	for _, e := range weakOrgUnitEndings {
		if strings.HasSuffix(s, e) {
			return true
		}
	}
	return false
}
