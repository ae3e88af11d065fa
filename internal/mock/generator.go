package mock

import (
	"math"
	"sync"
	"time"
)

var responses = []string{
	"I'm here to help you boost productivity! What would you like to accomplish today?",
	"Based on your Google Workspace data, I notice you have 3 upcoming meetings. Would you like me to prepare summaries?",
	"I can help you automate workflows, analyze documents, or generate content. What's your priority?",
	"Great question! Let me analyze your workspace data and provide insights...",
	"I've integrated with your Google Calendar and can suggest optimal meeting times. Shall I proceed?",
	"Your productivity score has increased 23% this week! Here's what's driving the improvement...",
	"I can help streamline your email management. I noticed you have 47 unread emails - shall I categorize them?",
}

var suggestions = []string{
	"Schedule a meeting",
	"Analyze documents",
	"Generate report",
	"Check calendar",
}

var insights = []string{
	"Peak productivity hours: 9-11 AM",
	"Most collaborative day: Tuesday",
	"Suggestion: Block 2-4 PM for deep work",
	"Email efficiency improved 15% this week",
}

// Responses returns a copy of the canned chat replies.
func Responses() []string { return append([]string(nil), responses...) }

// Suggestions returns a copy of the fixed chat suggestions.
func Suggestions() []string { return append([]string(nil), suggestions...) }

// Insights returns a copy of the fixed analytics insights.
func Insights() []string { return append([]string(nil), insights...) }

// ChatReply is the body of a successful /api/chat response.
type ChatReply struct {
	Response    string   `json:"response"`
	Timestamp   string   `json:"timestamp"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

// Analytics is the body of /api/analytics.
type Analytics struct {
	Productivity Productivity `json:"productivity"`
	Meetings     Meetings     `json:"meetings"`
	Emails       Emails       `json:"emails"`
	Documents    Documents    `json:"documents"`
	AIInsights   []string     `json:"aiInsights"`
}

type Productivity struct {
	Score  int    `json:"score"`
	Trend  string `json:"trend"`
	Change int    `json:"change"`
}

type Meetings struct {
	Today       int `json:"today"`
	ThisWeek    int `json:"thisWeek"`
	AvgDuration int `json:"avgDuration"`
}

type Emails struct {
	Unread       int `json:"unread"`
	Processed    int `json:"processed"`
	ResponseTime int `json:"responseTime"`
}

type Documents struct {
	Created      int `json:"created"`
	Collaborated int `json:"collaborated"`
	Shared       int `json:"shared"`
}

// Generator produces mock payloads. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rnd   Rand
	clock Clock
}

// NewGenerator returns a Generator drawing from rnd and stamping with clock.
// Nil arguments select the process-wide random source and the wall clock.
func NewGenerator(rnd Rand, clock Clock) *Generator {
	if rnd == nil {
		rnd = globalRand{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{rnd: rnd, clock: clock}
}

func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64()
}

// intIn draws floor(lo + r*span), i.e. an integer in [lo, lo+span).
func (g *Generator) intIn(lo, span int) int {
	n := int(math.Floor(g.float() * float64(span)))
	if n >= span {
		n = span - 1
	}
	return lo + n
}

// ChatDelay returns a simulated latency uniformly drawn from [lo, hi).
func (g *Generator) ChatDelay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(g.float()*float64(hi-lo))
}

// Chat returns a canned reply; message does not influence the choice.
func (g *Generator) Chat(message string) ChatReply {
	idx := g.intIn(0, len(responses))
	// Rounding can land r*0.14 on the open upper bound.
	confidence := 0.85 + g.float()*0.14
	if confidence >= 0.99 {
		confidence = math.Nextafter(0.99, 0)
	}
	return ChatReply{
		Response:    responses[idx],
		Timestamp:   FormatTimestamp(g.clock.Now()),
		Confidence:  confidence,
		Suggestions: Suggestions(),
	}
}

// Analytics returns independently drawn pseudo metrics.
func (g *Generator) Analytics() Analytics {
	trend := "down"
	score := g.intIn(75, 20)
	if g.float() > 0.5 {
		trend = "up"
	}
	return Analytics{
		Productivity: Productivity{
			Score:  score,
			Trend:  trend,
			Change: g.intIn(1, 15),
		},
		Meetings: Meetings{
			Today:       g.intIn(1, 5),
			ThisWeek:    g.intIn(10, 20),
			AvgDuration: g.intIn(30, 45),
		},
		Emails: Emails{
			Unread:       g.intIn(10, 50),
			Processed:    g.intIn(50, 100),
			ResponseTime: g.intIn(15, 120),
		},
		Documents: Documents{
			Created:      g.intIn(2, 10),
			Collaborated: g.intIn(5, 15),
			Shared:       g.intIn(1, 8),
		},
		AIInsights: Insights(),
	}
}

// Now exposes the generator's clock so handlers stamp responses consistently.
func (g *Generator) Now() time.Time {
	return g.clock.Now()
}
