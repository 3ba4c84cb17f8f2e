package translate

import "strings"

// Keyword substitution tables used when the remote backend is absent or
// keeps failing. The terms cover the safety-training domain the uploads
// come from.
var keywordTables = map[string]map[string]string{
	"en": {
		"안전": "Safety", "교육": "Training", "기초": "Basic", "용접": "Welding",
		"크레인": "Crane", "조작": "Operation", "장비": "Equipment", "사용법": "Usage",
		"점검": "Inspection", "유지보수": "Maintenance", "응급처치": "First_Aid",
		"산업": "Industrial", "건설": "Construction", "기계": "Machine",
		"공구": "Tool", "실습": "Practice", "법규": "Regulation", "규정": "Standard",
		"작업": "Work", "현장": "Site", "관리": "Management", "위험": "Risk",
	},
	"zh": {
		"안전": "安全", "교육": "培训", "기초": "基础", "용접": "焊接",
		"크레인": "起重机", "조작": "操作", "장비": "设备", "사용법": "使用方法",
		"점검": "检查", "유지보수": "维护", "응급처치": "急救",
		"산업": "工业", "건설": "建设", "기계": "机器", "공구": "工具",
	},
	"vi": {
		"안전": "An_Toan", "교육": "Dao_Tao", "기초": "Co_Ban", "용접": "Han",
		"크레인": "Cau_Truc", "조작": "Van_Hanh", "장비": "Thiet_Bi",
		"산업": "Cong_Nghiep", "건설": "Xay_Dung", "기계": "May_Moc",
	},
	"th": {
		"안전": "ปลอดภัย", "교육": "การศึกษา", "기초": "พื้นฐาน", "용접": "เชื่อม",
		"크레인": "เครน", "조작": "ดำเนินงาน", "장비": "อุปกรณ์",
	},
	"ja": {
		"안전": "安全", "교육": "教育", "기초": "基礎", "용접": "溶接",
		"크레인": "クレーン", "조작": "操作", "장비": "設備", "공구": "工具",
	},
}

// fallbackTitle substitutes known keywords for lang. When nothing in the
// source matched, a per-language suffix keeps the fallback values pairwise
// distinct, so language variants named from them can't collide.
func fallbackTitle(title, lang string) string {
	out := title

	for korean, translated := range keywordTables[lang] {
		out = strings.ReplaceAll(out, korean, translated)
	}

	if out == title {
		out = title + "_" + strings.ToUpper(lang)
	}

	return out
}
