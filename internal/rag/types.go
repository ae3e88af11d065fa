package rag

// Envelope is the v4 API response wrapper.
type Envelope[T any] struct {
	Success  bool           `json:"success"`
	Errors   []ResponseInfo `json:"errors"`
	Messages []ResponseInfo `json:"messages"`
	Result   T              `json:"result"`
}

// ResponseInfo is one entry of an envelope's errors or messages.
type ResponseInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RankingOptions filters search hits.
type RankingOptions struct {
	ScoreThreshold float64 `json:"score_threshold"`
}

// SearchRequest is the body of a retrieval-only query.
type SearchRequest struct {
	Query          string          `json:"query"`
	MaxNumResults  int             `json:"max_num_results,omitempty"`
	RankingOptions *RankingOptions `json:"ranking_options,omitempty"`
}

// AISearchRequest is the body of a generated-answer query.
type AISearchRequest struct {
	Query          string          `json:"query"`
	Model          string          `json:"model,omitempty"`
	RewriteQuery   bool            `json:"rewrite_query"`
	MaxNumResults  int             `json:"max_num_results,omitempty"`
	RankingOptions *RankingOptions `json:"ranking_options,omitempty"`
	Stream         bool            `json:"stream"`
}

// Instance is an AutoRAG instance as listed by the API.
type Instance struct {
	ID         string `json:"id"`
	Source     string `json:"source,omitempty"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// SearchResult is the result of Search and AISearch. Response is only set
// by AISearch.
type SearchResult struct {
	Object      string      `json:"object"`
	SearchQuery string      `json:"search_query"`
	Response    string      `json:"response,omitempty"`
	Data        []SearchHit `json:"data"`
	HasMore     bool        `json:"has_more"`
	NextPage    *string     `json:"next_page"`
}

// SearchHit is one matching chunk of an indexed file.
type SearchHit struct {
	FileID     string         `json:"file_id"`
	Filename   string         `json:"filename"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Content    []ContentPart  `json:"content"`
}

// ContentPart is a fragment of a hit's content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
