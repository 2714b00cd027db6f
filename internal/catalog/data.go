package catalog

// 기본 카탈로그 테이블
// 옵션 선언 순서가 그룹 순서와 합성 요청 페이로드 순서를 결정함

var defaultCategories = []Category{
	CategoryFabric,
	CategoryJacket,
	CategoryVest,
	CategoryTrousers,
	CategoryShirt,
}

var defaultOptions = map[Category][]Option{
	CategoryFabric: {
		{ID: "fabric-wool-110s", Title: "울 110수", Subtitle: "사계절용 순모", Image: "/images/fabric/wool-110s.jpg"},
		{ID: "fabric-wool-130s", Title: "울 130수", Subtitle: "부드러운 광택의 고번수 원단", Image: "/images/fabric/wool-130s.jpg"},
		{ID: "fabric-cashmere-blend", Title: "캐시미어 블렌드", Subtitle: "울 90 / 캐시미어 10", Image: "/images/fabric/cashmere-blend.jpg"},
		{ID: "fabric-linen-blend", Title: "린넨 블렌드", Subtitle: "여름용 혼방 원단", Image: "/images/fabric/linen-blend.jpg"},
	},
	CategoryJacket: {
		{ID: "jacket-fit-classic", Group: "fit", Title: "클래식 핏", Subtitle: "여유 있는 실루엣"},
		{ID: "jacket-fit-slim", Group: "fit", Title: "슬림 핏", Subtitle: "허리 라인을 살린 실루엣"},
		{ID: "jacket-lapel-notch", Group: "lapel", Title: "노치 라펠", Subtitle: "가장 표준적인 라펠"},
		{ID: "jacket-lapel-peak", Group: "lapel", Title: "피크 라펠", Subtitle: "포멀한 인상"},
		{ID: "jacket-lapel-shawl", Group: "lapel", Title: "숄 라펠", Subtitle: "턱시도 스타일"},
		{ID: "jacket-button-single2", Group: "button", Title: "싱글 2버튼", Subtitle: "비즈니스 표준"},
		{ID: "jacket-button-single3", Group: "button", Title: "싱글 3버튼", Subtitle: "클래식한 분위기"},
		{ID: "jacket-button-double6", Group: "button", Title: "더블 6버튼", Subtitle: "격식 있는 더블 브레스트"},
		{ID: "jacket-vent-center", Group: "vent", Title: "센터 벤트", Subtitle: "뒷중심 트임"},
		{ID: "jacket-vent-side", Group: "vent", Title: "사이드 벤트", Subtitle: "양옆 트임"},
		{ID: "jacket-vent-none", Group: "vent", Title: "노 벤트", Subtitle: "트임 없음"},
		{ID: "jacket-lining-full", Group: "lining", Title: "풀 라이닝", Subtitle: "전면 안감"},
		{ID: "jacket-lining-half", Group: "lining", Title: "하프 라이닝", Subtitle: "통기성 좋은 반안감"},
	},
	CategoryVest: {
		{ID: "vest-single5", Title: "싱글 5버튼", Subtitle: "기본 베스트"},
		{ID: "vest-double", Title: "더블 브레스트", Subtitle: "클래식 더블 베스트"},
		{ID: "vest-none", Title: "베스트 없음", Subtitle: "투피스 구성"},
	},
	CategoryTrousers: {
		{ID: "trousers-fit-straight", Group: "fit", Title: "스트레이트 핏", Subtitle: "일자 실루엣"},
		{ID: "trousers-fit-tapered", Group: "fit", Title: "테이퍼드 핏", Subtitle: "발목으로 좁아지는 실루엣"},
		{ID: "trousers-pleat-none", Group: "pleat", Title: "노 플리츠", Subtitle: "주름 없는 앞판"},
		{ID: "trousers-pleat-single", Group: "pleat", Title: "원 플리츠", Subtitle: "한 줄 주름"},
		{ID: "trousers-pleat-double", Group: "pleat", Title: "투 플리츠", Subtitle: "두 줄 주름"},
		{ID: "trousers-cuff-plain", Group: "cuff", Title: "플레인 헴", Subtitle: "접단 없음"},
		{ID: "trousers-cuff-turnup", Group: "cuff", Title: "턴업", Subtitle: "4cm 접단"},
	},
	CategoryShirt: {
		{ID: "shirt-collar-regular", Group: "collar", Title: "레귤러 칼라", Subtitle: "표준 칼라"},
		{ID: "shirt-collar-wide", Group: "collar", Title: "와이드 칼라", Subtitle: "넓게 벌어진 칼라"},
		{ID: "shirt-collar-button-down", Group: "collar", Title: "버튼다운 칼라", Subtitle: "캐주얼한 인상"},
		{ID: "shirt-cuff-barrel", Group: "cuff", Title: "배럴 커프스", Subtitle: "단추 잠금"},
		{ID: "shirt-cuff-french", Group: "cuff", Title: "프렌치 커프스", Subtitle: "커프스 링크 사용"},
	},
}

// 그룹별 기본 선택 테이블. 비어 있는 값은 해당 그룹의 첫 옵션으로 대체됨.
var defaultDefaults = map[Category]map[string]string{
	CategoryFabric: {
		DefaultGroup: "fabric-wool-110s",
	},
	CategoryJacket: {
		"fit":    "jacket-fit-classic",
		"lapel":  "jacket-lapel-notch",
		"button": "jacket-button-single2",
		"vent":   "jacket-vent-side",
		"lining": "", // 첫 옵션으로 대체
	},
	CategoryVest: {
		DefaultGroup: "vest-none",
	},
	CategoryTrousers: {
		"fit":   "trousers-fit-tapered",
		"pleat": "trousers-pleat-none",
		"cuff":  "trousers-cuff-plain",
	},
	// shirt는 기본 테이블 미선언: 모든 그룹이 첫 옵션으로 대체됨
}

// Default returns the built-in garment catalog.
func Default() *Catalog {
	return New(defaultCategories, defaultOptions, defaultDefaults)
}
