package mindmap

// MapClient is the main client for turning study material into mind maps.
// It manages token encoding, chunk sizing, AI request parallelism, and
// retry limits for one or more pipeline runs.
//
// A MapClient should be created using NewMapClient.
type MapClient struct {
	tokenEncoder       string
	maxChunkTokens     int
	parallelAiRequests int
	maxRetries         int
	maxKeywords        int
}

// NewMapClientParams defines the configuration parameters for creating
// a new MapClient.
//
// TokenEncoder specifies the tiktoken encoding used for chunk sizing.
// MaxChunkTokens bounds the size of a single chunk.
// ParallelAiRequests controls how many AI requests run concurrently.
// MaxRetries bounds attempts for hierarchy and artifact extraction.
// MaxKeywords is the number of keywords returned per run.
type NewMapClientParams struct {
	TokenEncoder       string
	MaxChunkTokens     int
	ParallelAiRequests int
	MaxRetries         int
	MaxKeywords        int
}

// NewMapClient creates and returns a new MapClient configured with the
// provided parameters.
//
// Example:
//
//	client, err := mindmap.NewMapClient(mindmap.NewMapClientParams{
//		TokenEncoder:       "o200k_base",
//		MaxChunkTokens:     1200,
//		ParallelAiRequests: 8,
//	})
func NewMapClient(params NewMapClientParams) (*MapClient, error) {
	encoder := params.TokenEncoder
	if encoder == "" {
		encoder = "o200k_base"
	}
	maxChunkTokens := params.MaxChunkTokens
	if maxChunkTokens <= 0 {
		maxChunkTokens = 1200
	}
	parallel := params.ParallelAiRequests
	if parallel <= 0 {
		parallel = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	maxKeywords := params.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = 15
	}

	c := &MapClient{
		tokenEncoder:       encoder,
		maxChunkTokens:     maxChunkTokens,
		parallelAiRequests: parallel,
		maxRetries:         maxRetries,
		maxKeywords:        maxKeywords,
	}

	return c, nil
}
