package digest

import (
	"encoding/json"
	"strings"
)

// MaxArticles caps the number of articles returned to the caller.
const MaxArticles = 50

// Article is a single sanitized article reference from the research run.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Result is the response payload for the weekly digest endpoint.
type Result struct {
	Articles []Article `json:"articles"`
}

// Sanitize parses the raw model output and normalizes it into a bounded
// Result. Model output is untrusted: anything that is not valid JSON, or
// whose articles field is not an array, degrades to an empty list rather
// than an error. Entries survive only if they are objects with a string
// url starting with "http"; a missing or non-string title becomes "".
// At most MaxArticles entries are kept, in their original order.
func Sanitize(text string) Result {
	res := Result{Articles: []Article{}}

	var raw struct {
		Articles []json.RawMessage `json:"articles"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return res
	}

	for _, entry := range raw.Articles {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}

		url, ok := fields["url"].(string)
		if !ok || !strings.HasPrefix(url, "http") {
			continue
		}

		title, _ := fields["title"].(string)

		res.Articles = append(res.Articles, Article{URL: url, Title: title})
		if len(res.Articles) == MaxArticles {
			break
		}
	}

	return res
}
