package service

import (
	"fmt"
	"strings"

	llm "hype_signal/internal/modules/llm/service"
)

const sentimentSystem = `You are a cryptocurrency sentiment analysis expert. Judge what a post implies for crypto trading.

Rules:
1. sentiment is one of "bullish", "bearish", "neutral"
2. confidence is an integer 0-100
3. reasoning is one or two sentences
4. judge trading implications, not general crypto chatter
5. never put raw double quotes inside JSON string values, use single quotes instead

Reply with JSON only:
{"sentiment": "bullish|bearish|neutral", "confidence": 85, "reasoning": "..."}`

const projectsSystem = `You are a crypto and DeFi expert. List every crypto protocol, project, token, chain or crypto company named in the text.

Rules:
1. use project names exactly as written in the text
2. include lesser-known projects
3. skip generic words such as "crypto", "blockchain", "DeFi"

Reply with a JSON array of strings, for example ["Uniswap", "Arbitrum"].`

const tickersSystem = `You are a crypto expert. Map project names to their primary exchange ticker.

Rules:
1. only tickers actively traded on major exchanges
2. use the primary ticker (WETH -> ETH, EigenLayer -> EIGEN, Chainlink -> LINK, Solana -> SOL)
3. skip projects without a tradeable token
4. uppercase tickers only
5. never return BTC or anything Bitcoin related

Reply with a JSON array of strings, for example ["ETH", "SOL"].`

const signalsSystem = `You are a meticulous crypto trading analyst. Extract only tokens the author is explicitly bullish on and ignore vague hype or generic market talk.

Requirements:
1. the token must be clearly referenced by cashtag, ticker or full name
2. bullish requires supporting language ("buy", "accumulating", "going higher"); mixed or unclear sentiment is neutral or omitted
3. uppercase tickers; map project names to the common ticker (Solana -> SOL)
4. exclude Bitcoin entirely
5. reply with JSON only:
{"signals": [{"token": "SOL", "sentiment": "bullish|bearish|neutral", "conviction": 0-100, "reasoning": "...", "evidence": "quote from the post", "mentionType": "cashtag|ticker|project|narrative"}], "notes": "..."}`

func sentimentPrompt(text string) llm.Prompt {
	return llm.Prompt{
		System:      sentimentSystem,
		User:        fmt.Sprintf("Analyze this post for crypto trading sentiment:\n\n%q", text),
		MaxTokens:   200,
		Temperature: 0.1,
	}
}

func projectsPrompt(text string) llm.Prompt {
	return llm.Prompt{
		System:      projectsSystem,
		User:        fmt.Sprintf("Extract crypto projects from: %q", text),
		MaxTokens:   300,
		Temperature: 0.1,
	}
}

func tickersPrompt(projects []string) llm.Prompt {
	quoted := make([]string, len(projects))
	for i, p := range projects {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return llm.Prompt{
		System:      tickersSystem,
		User:        "Map these projects to tickers: [" + strings.Join(quoted, ",") + "]",
		MaxTokens:   200,
		Temperature: 0.1,
	}
}

func signalsPrompt(text string, seeds []string) llm.Prompt {
	hint := "none"
	if len(seeds) > 0 {
		hint = strings.ToUpper(strings.Join(seeds, ", "))
	}
	return llm.Prompt{
		System: signalsSystem,
		User: fmt.Sprintf("Post:\n\"\"\"\n%s\n\"\"\"\nDetected tickers from cashtags or heuristics: %s\n\nReturn the JSON payload only.",
			text, hint),
		MaxTokens:   450,
		Temperature: 0.15,
	}
}
