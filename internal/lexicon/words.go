package lexicon

// Demo subset of the Loughran-McDonald financial sentiment dictionary.
// Swap in the full lists via New for production scoring.

var positiveWords = []string{
	"achieve", "advance", "benefit", "boost", "competitive", "efficiency",
	"enhance", "exceed", "excellent", "exceptional", "expand", "expansion",
	"favorable", "gain", "grew", "growth", "improve", "improvement",
	"increase", "innovation", "innovative", "leadership", "momentum",
	"opportunity", "optimistic", "outperform", "positive", "profit",
	"profitable", "progress", "record", "rebound", "resilient", "robust",
	"solid", "strength", "strengthen", "strong", "succeed", "success",
	"successful", "superior", "surpass", "upside",
}

var negativeWords = []string{
	"adverse", "against", "challenge", "challenging", "concern", "decline",
	"decrease", "default", "deficiency", "deficit", "deteriorate",
	"difficult", "disruption", "downturn", "failure", "fraud", "impair",
	"impairment", "lawsuit", "liability", "litigation", "loss", "negative",
	"penalty", "restatement", "risk", "severe", "shortfall", "slowdown",
	"uncertain", "underperform", "unfavorable", "violation", "weak",
	"weakness", "writedown", "writeoff",
}

var uncertaintyWords = []string{
	"almost", "ambiguity", "anticipate", "appear", "approximate", "assume",
	"believe", "conditional", "contingency", "could", "depend", "estimate",
	"expect", "exposure", "fluctuate", "indefinite", "may", "might",
	"pending", "possible", "predict", "preliminary", "probable", "risk",
	"roughly", "seldom", "sometimes", "speculative", "uncertain",
	"uncertainty", "unclear", "unknown", "unpredictable", "variable",
	"volatility",
}
