package digest

// researchPrompt is the fixed instruction sent to the model on every
// request. The strict-JSON contract here is what Sanitize expects back.
const researchPrompt = `You are a research assistant compiling a weekly reading digest.

Search the web for the most noteworthy articles published in the last 7 days
about software engineering, infrastructure, and machine learning. Prefer
in-depth technical writing over news blurbs or product announcements.

Respond with STRICT JSON only, no prose and no markdown fences, matching
exactly this shape:

{"articles": [{"url": "https://example.com/post", "title": "Post title"}]}

Rules:
- Include between 10 and 40 articles.
- Every url must be an absolute http or https link to the article itself,
  not a homepage or aggregator page.
- If nothing qualifies, respond with {"articles": []}.`

// Prompt returns the research prompt for a digest run.
func Prompt() string {
	return researchPrompt
}
