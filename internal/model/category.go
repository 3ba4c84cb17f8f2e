package model

// Three-level category taxonomy for training videos. Static data: the web
// form renders it and uploads are validated against it.
var (
	MainCategories = []string{"기계", "공구", "장비", "약품"}

	SubCategories = map[string][]string{
		"기계": {"건설기계", "공작기계", "산업기계", "제조기계"},
		"공구": {"수공구", "전동공구", "절삭공구", "측정공구"},
		"장비": {"안전장비", "운송장비"},
		"약품": {"의약품", "화공약품"},
	}

	LeafCategories = map[string][]string{
		"건설기계": {"불도저", "크레인"},
		"공작기계": {"CNC 선반", "연삭기"},
		"산업기계": {"굴착기", "유압 프레스"},
		"제조기계": {"사출 성형기", "열 성형기"},
		"수공구":  {"전동드릴", "플라이어", "해머"},
		"전동공구": {"그라인더", "전동톱", "해머드릴"},
		"절삭공구": {"가스 용접기", "커터"},
		"측정공구": {"마이크로미터", "하이트 게이지"},
		"안전장비": {"헬멧", "방진 마스크", "낙하 방지벨트", "안전모", "안전화", "보호안경", "귀마개", "보호장갑", "호흡 보호구"},
		"운송장비": {"리프트 장비", "체인 블록", "호이스트"},
		"의약품":  {"인슐린", "항생제"},
		"화공약품": {"황산", "염산"},
	}
)

// ValidCategoryPath checks that the three levels form a known path through
// the taxonomy
func ValidCategoryPath(main, sub, leaf string) bool {
	subs, ok := SubCategories[main]
	if !ok {
		return false
	}

	if !contains(subs, sub) {
		return false
	}

	return contains(LeafCategories[sub], leaf)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
