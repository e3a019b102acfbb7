// Package aiprovider реализует HTTP-клиент внешнего AI-провайдера,
// генерирующего текст заявки по краткому описанию участника и данным тендера.
package aiprovider

// GenerateRequest — запрос на генерацию текста заявки.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Content — фрагмент диалога с провайдером.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part — текстовая часть фрагмента.
type Part struct {
	Text string `json:"text"`
}

// GenerateResponse — ответ провайдера с вариантами текста и расходом токенов.
type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
