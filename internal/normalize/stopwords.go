package normalize

import "github.com/roach88/askviz/internal/vocab"

// stopWords is the NLTK English stop-word list minus the comparator and
// filter-trigger words the keyword extractor needs to see (where, only, is,
// more, above, over, below, under). "than" stays a stop-word so "greater
// than 5" reaches the extractor as "greater 5". Tokens never contain
// apostrophes, so contracted forms appear without them.
var stopWords = vocab.NewSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "youre", "youve", "youll", "youd", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "shes", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "thatll", "these", "those",
	"am", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until", "while",
	"of", "at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "to", "from", "up", "down", "in", "out",
	"on", "off", "again", "further", "then", "once", "here", "there",
	"when", "why", "how", "all", "any", "both", "each", "few", "most",
	"other", "some", "such", "no", "nor", "not", "own", "same", "so",
	"than", "too", "very", "s", "t", "can", "will", "just", "don", "dont", "should", "shouldve",
	"now", "d", "ll", "m", "o", "re", "ve", "y",
	"ain", "aren", "arent", "couldn", "couldnt", "didn", "didnt", "doesn", "doesnt",
	"hadn", "hadnt", "hasn", "hasnt", "haven", "havent", "isn", "isnt", "ma",
	"mightn", "mightnt", "mustn", "mustnt", "needn", "neednt", "shan", "shant",
	"shouldn", "shouldnt", "wasn", "wasnt", "weren", "werent", "won", "wont",
	"wouldn", "wouldnt",
)

// IsStopWord reports whether word is dropped from the token stream.
func IsStopWord(word string) bool {
	return stopWords.Has(word)
}
