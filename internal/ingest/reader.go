package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Tracked keywords are matched as title substrings, so any run of up to 64
// characters is allowed, non-ASCII included. Control and format characters
// are rejected.
var keywordRegex = regexp.MustCompile(`^\P{C}{1,64}$`)

// LoadKeywords reads tracked keywords from a CSV file with a header row and
// one keyword in the first column of every following row. Invalid or
// duplicate rows are skipped (fail-soft); a missing file is an error.
func LoadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseKeywords(f)
}

// ParseKeywords is LoadKeywords over any reader.
func ParseKeywords(src io.Reader) ([]string, error) {
	r := csv.NewReader(stripBOM(src))
	r.FieldsPerRecord = -1

	var kws []string
	seen := make(map[string]bool)
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read keywords line %d: %w", line, err)
		}
		if line == 1 || len(rec) == 0 {
			continue // Skip header
		}

		kw := strings.ToLower(strings.TrimSpace(rec[0]))
		if !keywordRegex.MatchString(kw) || seen[kw] {
			continue
		}
		seen[kw] = true
		kws = append(kws, kw)
	}
	return kws, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
