package scrape

// Page is the result of scraping a single URL. Pages are append-only: the
// fetcher builds one per URL and nothing mutates it afterwards. A failed
// fetch still yields a Page so batch callers never have to handle errors
// per URL; Success=false always implies an empty Content slice.
type Page struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Headings    []string `json:"headings"`
	Content     []string `json:"content"`
	Images      []string `json:"images,omitempty"`
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
}

func failedPage(url, msg string) Page {
	return Page{URL: url, Success: false, Error: msg}
}
