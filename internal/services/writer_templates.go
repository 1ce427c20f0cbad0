package services

import "github.com/yungbote/researchdesk-backend/internal/domain/research"

// templateFor maps a query-type label to the structural instructions the
// writer appends to its synthesis prompt. The mapping is deterministic; one
// template per label.
func templateFor(qt research.QueryType) string {
	switch qt {
	case research.QueryPerson:
		return `
STRUCTURE FOR PERSON/LEADERSHIP QUERY:
**Who They Are**
Brief introduction with current role and significance

**Background & Career**
• Previous positions and experience
• Education and early career
• Key achievements

**Leadership & Impact**
Information about their leadership style, decisions, and company impact

**Notable Achievements**
Recent accomplishments or recognition`

	case research.QueryProduct:
		return `
STRUCTURE FOR PRODUCT/SERVICE QUERY:
**Product Overview**
What it is and its primary purpose

**Key Features**
• Feature 1 - description
• Feature 2 - description
• Feature 3 - description

**Target Users & Use Cases**
Who uses it and how

**Competitive Position**
How it compares to alternatives or market position`

	case research.QueryFinancial:
		return `
STRUCTURE FOR FINANCIAL QUERY:
**Financial Overview**
Current financial position summary

**Key Metrics**
• Revenue figures
• Profit/loss data
• Valuation or market cap
• Growth rates

**Financial Performance**
Analysis of trends and performance

**Investment & Funding** (if relevant)
Details about funding rounds, investors, or stock performance`

	case research.QueryComparison:
		return `
STRUCTURE FOR COMPARISON QUERY:
**Quick Comparison**
Side-by-side summary of main differences

**First Company Strengths**
• Strength 1
• Strength 2

**Second Company Strengths**
• Strength 1
• Strength 2

**Key Differences**
Major distinguishing factors

**Market Position**
How they compare in the market`

	case research.QueryNews:
		return `
STRUCTURE FOR NEWS/RECENT DEVELOPMENTS:
**Latest Update**
Most recent news or development

**Recent Developments**
• Development 1 - with timeframe
• Development 2 - with timeframe
• Development 3 - with timeframe

**Context & Impact**
What this means and why it matters

**What's Next**
Future implications or expected developments`

	case research.QueryExplanation:
		return `
STRUCTURE FOR HOW/WHY/EXPLANATION QUERY:
**Direct Answer**
Clear answer to the how/why/when question

**The Process/Reason**
Detailed explanation with steps or reasoning

**Key Factors**
• Factor 1
• Factor 2
• Factor 3

**Examples** (if applicable)
Real-world examples or context

**Additional Context**
Related information or implications`

	case research.QueryCompetitive:
		return `
STRUCTURE FOR COMPETITOR QUERY:
**Market Overview**
Brief context of the competitive landscape

**Main Competitors**
• Competitor 1 - key strengths
• Competitor 2 - key strengths
• Competitor 3 - key strengths

**Competitive Advantages**
What differentiates the main company

**Market Dynamics**
Competition intensity and market trends`

	case research.QueryOverview:
		return `
STRUCTURE FOR COMPANY OVERVIEW:
**Overview**
Brief introduction with key highlights

**What They Do**
Core business and services

**Key Information**
• Important fact 1
• Important fact 2
• Important fact 3

**Market Position**
Standing in the industry

**Recent Highlights**
Notable recent achievements or news`

	default:
		return `
STRUCTURE (ADAPT TO QUERY):
Use a natural structure that best fits the query. Include:
- Clear introductory section
- 2-3 well-organized body sections with descriptive headings
- Bullet points for lists
- Concise conclusion if needed`
	}
}
