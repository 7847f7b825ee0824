package prompts

// Default is a built-in prompt pair used when no active admin override matches.
type Default struct {
	SystemPrompt       string
	UserPromptTemplate string
}

// BuiltinDefault returns the built-in prompt pair for a purpose and locale.
// Unknown locales fall back to Korean, unknown purposes to the basic analysis.
func BuiltinDefault(purpose, locale string) Default {
	byLocale, ok := builtinDefaults[purpose]
	if !ok {
		byLocale = builtinDefaults[PurposeGPTBasic]
	}
	d, ok := byLocale[locale]
	if !ok {
		d = byLocale["ko"]
	}
	return d
}

var builtinDefaults = map[string]map[string]Default{
	PurposeGPTBasic: {
		"ko": {
			SystemPrompt: "당신은 해외 진출을 준비하는 기업을 돕는 비즈니스 매칭 전문 컨설턴트입니다. 반드시 유효한 JSON 객체로만 응답하세요.",
			UserPromptTemplate: `다음 기업의 해외 진출 가능성을 분석해 주세요.

기업명: {{company_name}}
업종: {{industry}}
목표 국가: {{target_countries}}
기업 소개: {{company_description}}
제품/서비스: {{product_info}}
시장 정보: {{market_info}}
참고 자료: {{reference_data}}
추가 지시사항: {{admin_instructions}}

다음 키를 가진 JSON 객체로 응답하세요: company_strengths, target_market_fit, entry_strategy, expected_challenges, recommendations.`,
		},
		"ja": {
			SystemPrompt: "あなたは海外進出を目指す企業を支援するビジネスマッチング専門コンサルタントです。必ず有効なJSONオブジェクトのみで回答してください。",
			UserPromptTemplate: `次の企業の海外進出可能性を分析してください。

企業名: {{company_name}}
業種: {{industry}}
対象国: {{target_countries}}
企業紹介: {{company_description}}
製品・サービス: {{product_info}}
市場情報: {{market_info}}
参考資料: {{reference_data}}
追加指示: {{admin_instructions}}

次のキーを持つJSONオブジェクトで回答してください: company_strengths, target_market_fit, entry_strategy, expected_challenges, recommendations.`,
		},
		"en": {
			SystemPrompt: "You are a business-matching consultant helping companies expand into overseas markets. Respond with a valid JSON object only.",
			UserPromptTemplate: `Analyze the overseas expansion potential of the following company.

Company: {{company_name}}
Industry: {{industry}}
Target countries: {{target_countries}}
Company description: {{company_description}}
Products/services: {{product_info}}
Market information: {{market_info}}
Reference data: {{reference_data}}
Additional instructions: {{admin_instructions}}

Respond with a JSON object containing these keys: company_strengths, target_market_fit, entry_strategy, expected_challenges, recommendations.`,
		},
	},
	PurposeGPTMarket: {
		"ko": {
			SystemPrompt: "당신은 해외 시장 분석 전문가입니다. 반드시 유효한 JSON 객체로만 응답하세요.",
			UserPromptTemplate: `{{target_countries}} 시장에서 아래 기업의 제품에 대한 시장 분석을 작성해 주세요.

기업명: {{company_name}}
업종: {{industry}}
제품/서비스: {{product_info}}
추가 지시사항: {{admin_instructions}}

다음 키를 가진 JSON 객체로 응답하세요: market_overview, market_size, competitors, regulations, opportunities, risks.`,
		},
		"ja": {
			SystemPrompt: "あなたは海外市場分析の専門家です。必ず有効なJSONオブジェクトのみで回答してください。",
			UserPromptTemplate: `{{target_countries}}市場における次の企業の製品について市場分析を作成してください。

企業名: {{company_name}}
業種: {{industry}}
製品・サービス: {{product_info}}
追加指示: {{admin_instructions}}

次のキーを持つJSONオブジェクトで回答してください: market_overview, market_size, competitors, regulations, opportunities, risks.`,
		},
		"en": {
			SystemPrompt: "You are an international market analysis expert. Respond with a valid JSON object only.",
			UserPromptTemplate: `Write a market analysis for the following company's products in the {{target_countries}} market.

Company: {{company_name}}
Industry: {{industry}}
Products/services: {{product_info}}
Additional instructions: {{admin_instructions}}

Respond with a JSON object containing these keys: market_overview, market_size, competitors, regulations, opportunities, risks.`,
		},
	},
	PurposePerplexity: {
		"ko": {
			SystemPrompt: "당신은 최신 웹 자료를 근거로 해외 시장을 조사하는 리서치 전문가입니다. 출처를 인용하고, 가능한 한 JSON 객체 형식으로 응답하세요.",
			UserPromptTemplate: `{{target_countries}} 시장에 대해 아래 기업 관점에서 최신 시장 조사를 수행해 주세요.

기업명: {{company_name}}
업종: {{industry}}
제품/서비스: {{product_info}}
시장 정보: {{market_info}}
추가 지시사항: {{admin_instructions}}

market_overview, market_size, competitors, regulations, opportunities, risks 키를 가진 JSON 객체로 응답해 주세요.`,
		},
		"ja": {
			SystemPrompt: "あなたは最新のウェブ情報に基づいて海外市場を調査するリサーチ専門家です。出典を引用し、可能な限りJSONオブジェクト形式で回答してください。",
			UserPromptTemplate: `{{target_countries}}市場について、次の企業の観点から最新の市場調査を行ってください。

企業名: {{company_name}}
業種: {{industry}}
製品・サービス: {{product_info}}
市場情報: {{market_info}}
追加指示: {{admin_instructions}}

market_overview, market_size, competitors, regulations, opportunities, risks のキーを持つJSONオブジェクトで回答してください。`,
		},
		"en": {
			SystemPrompt: "You are a research specialist grounding overseas market research in current web sources. Cite sources and respond as a JSON object where possible.",
			UserPromptTemplate: `Perform up-to-date market research on the {{target_countries}} market from the perspective of the company below.

Company: {{company_name}}
Industry: {{industry}}
Products/services: {{product_info}}
Market information: {{market_info}}
Additional instructions: {{admin_instructions}}

Respond as a JSON object with the keys market_overview, market_size, competitors, regulations, opportunities, risks.`,
		},
	},
}
