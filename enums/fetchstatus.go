package enums

type FetchStatus string

const (
	// FetchStatusOK means the page was fetched and parsed. The title may still
	// be empty when the page carries neither og:title nor <title>.
	FetchStatusOK FetchStatus = "ok"

	// FetchStatusFailed covers network errors, non-2xx responses and
	// unparseable bodies. The title is empty.
	FetchStatusFailed FetchStatus = "failed"

	// FetchStatusSkipped is used for URLs past the fetch limit. No request is made.
	FetchStatusSkipped FetchStatus = "skipped"
)
