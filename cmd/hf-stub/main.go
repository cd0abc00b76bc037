// hf-stub mimics the Hugging Face inference endpoint for summarization
// models. It answers any POST with a deterministic summary derived from the
// input, which makes end-to-end runs reproducible without an API key.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type inferenceRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxLength int  `json:"max_length"`
		MinLength int  `json:"min_length"`
		DoSample  bool `json:"do_sample"`
	} `json:"parameters"`
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8082"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		summary := firstSentences(req.Inputs, req.Parameters.MaxLength)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]string{{"summary_text": summary}})
	})

	log.Printf("hf-stub listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

// firstSentences clips the input to roughly maxWords words at a word
// boundary, which is close enough to a summary for test runs.
func firstSentences(input string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 150
	}
	words := strings.Fields(input)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
