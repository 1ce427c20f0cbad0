package services

import (
	"fmt"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
)

// Canned answers for fixed-intent and edge-case plans. These are returned
// without any search or LLM call.

func cannedIdentity() *research.Plan {
	return &research.Plan{
		Type: research.PlanHardcoded,
		Answer: `**I am a research assistant that helps you gather comprehensive information about companies using web search, multi-stage analysis, and contextual conversation.**

**My Capabilities:**

**Research & Analysis**
• Search and analyze web sources in real-time
• Provide detailed company information
• Track leadership, financials, and products
• Compare multiple companies

**Smart Conversations**
• Remember conversation context
• Handle follow-up questions naturally
• Resolve references ("it", "they", "this company")

**Special Features**
• /dig-deeper for detailed research
• /doc-preview and /doc-download for your research document
• Contextual suggestions

**Ready to research a company? Ask me anything!**`,
		KeyPoints: []string{
			"Company research assistant with live web search",
			"Staged pipeline for accurate results",
			"Contextual conversations with memory",
			"Document export and follow-up suggestions",
		},
	}
}

func cannedConfusedPurpose() *research.Plan {
	return &research.Plan{
		Type: research.PlanHardcoded,
		Answer: `**This is an assistant which answers company related queries.**

You can ask anything related to companies or choose something from the suggestions below.

**What I can help you with:**
• Company information and overviews
• Leadership and financial data
• Products and services
• Market analysis and competitors
• Recent news and developments

**Example questions:**
• "Tell me about Tesla"
• "Who is the CEO of Apple?"
• "Compare Google and Microsoft"
• "What are Amazon's main products?"

**What would you like to know about a company?**`,
		KeyPoints: []string{
			"Ask about any company",
			"Get detailed research and analysis",
			"Use /dig-deeper for comprehensive info",
		},
	}
}

func cannedOffTopicExample() *research.Plan {
	return &research.Plan{
		Type: research.PlanHardcoded,
		Answer: `**Invalid Question**

**Ask something related to companies.**

I'm designed to help with company and business research, not recipes or cooking instructions.

**Try asking:**
• "Tell me about Starbucks"
• "What does Nestle do?"
• "Compare Coca-Cola and PepsiCo"
• "Who is the CEO of McDonald's?"

**What company would you like to research?**`,
	}
}

func cannedConfusedUser(recentContext string) *research.Plan {
	context := ""
	if recentContext != "" {
		context = fmt.Sprintf("\n\n**Recent Context:** %s...", recentContext)
	}
	return &research.Plan{
		Type: research.PlanRedirect,
		Answer: fmt.Sprintf(`**Welcome! I'm your Company Research Assistant**

I help you research companies using web search and multi-stage analysis.

**What I Can Do:**

**Company Information**
• Get detailed overviews of any company
• Learn about history, products, and services
• Discover market position and competitors
• Find leadership, founders, and key people

**Financial & Business Data**
• Revenue, profits, and financial metrics
• Funding rounds and valuations
• Stock performance (for public companies)

**Comparisons & Analysis**
• Compare multiple companies side-by-side
• Analyze competitive advantages
• Market share and positioning

**Special Features:**
• **/dig-deeper** - Get comprehensive analysis (5 sub-queries, 8 sources)
• **/doc-preview** - View your research document
• **/doc-download** - Download your research report
• **/new-chat** - Start fresh conversation

**Example Questions:**
• "Tell me about Tesla"
• "Who is the CEO of Microsoft?"
• "Compare Apple and Samsung smartphones"
• "/dig-deeper What is Amazon's business strategy?"%s

**What would you like to research?**`, context),
		KeyPoints: []string{
			"Company research with live web search",
			"Contextual conversations with memory",
			"/dig-deeper for detailed research",
			"Document export via /doc-preview and /doc-download",
		},
	}
}

func cannedOffTopic() *research.Plan {
	return &research.Plan{
		Type: research.PlanRedirect,
		Answer: `**I'm specialized in Company Research**

I can't help with personal questions, weather, recipes, entertainment, or other non-business topics.

**What I CAN help with:**

**Company Research:**
• Company overviews and information
• Business models and revenue streams
• Products, services, and features
• Market position and competitors

**People & Leadership:**
• CEOs, founders, executives
• Leadership teams and company history

**Financial Data:**
• Revenue and profit figures
• Funding and valuations
• Stock performance

**Try asking:**
• "Tell me about [Company Name]"
• "Who is the CEO of [Company]?"
• "Compare [Company A] and [Company B]"

**Would you like to ask about a specific company?**`,
		KeyPoints: []string{
			"I specialize in company and business research",
			"Ask about companies, products, leadership, or markets",
			"Use specific company names for best results",
		},
	}
}

func cannedTooShort() *research.Plan {
	return &research.Plan{
		Type: research.PlanClarify,
		Answer: `**Your query seems too short**

Please provide more details so I can help you better.

**Good query examples:**
• "Tell me about Tesla"
• "Who is the CEO of Apple?"
• "What products does Microsoft offer?"
• "Compare Google and Amazon"

**Try to include:**
• A company name
• What you want to know about them

**Please try again with a complete question!**`,
	}
}

func cannedGibberish() *research.Plan {
	return &research.Plan{
		Type: research.PlanClarify,
		Answer: `**I didn't understand that**

Could you please rephrase your question clearly?

**Tips for clear queries:**
• Use complete words and sentences
• Mention specific company names
• Ask one clear question at a time

**Example queries:**
• "Tell me about Amazon"
• "What is Apple's revenue?"
• "Who founded Google?"

**Please try again!**`,
	}
}

func cannedMalicious() *research.Plan {
	return &research.Plan{
		Type: research.PlanRefuse,
		Answer: `**Invalid Input Detected**

Your input contains invalid characters or patterns.

**Please ask a legitimate business research question.**

**Valid examples:**
• "Tell me about Tesla"
• "What does Microsoft do?"
• "Compare Apple and Samsung"

If you believe this is an error, please rephrase your question using standard text.`,
	}
}

func cannedClarifyReference() *research.Plan {
	return &research.Plan{
		Type: research.PlanClarify,
		Answer: `**I'm having trouble understanding your request**

**Could you please:**
• Ask about a specific company
• Be more specific about what you want to know
• Use clear, complete sentences

**Try questions like:**
• "Tell me about Google"
• "Who is the CEO of Amazon?"
• "Compare Netflix and Disney"

**How can I assist you with company research?**`,
	}
}
