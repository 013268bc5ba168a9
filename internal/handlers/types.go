package handlers

// Strategy names a creation strategy accepted by the API.
type Strategy string

const (
	// StrategySequence issues a fresh code for every request.
	StrategySequence Strategy = "sequence"
	// StrategyHash returns the existing code for an equivalent URL.
	StrategyHash Strategy = "hash"
)

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL      string   `doc:"The URL to shorten"                              example:"https://example.com/very/long/path" json:"url"`
		Strategy Strategy `doc:"Creation strategy: sequence (default) or hash" example:"sequence"                          json:"strategy,omitempty" required:"false"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     struct {
		ShortCode   string `doc:"The short code"     example:"rKP"                                json:"shortCode"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:8888/api/shortener/rKP" json:"shortUrl"`
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"rKP" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status       int
	Location     string `header:"Location"`
	CacheControl string `header:"Cache-Control"`
}
