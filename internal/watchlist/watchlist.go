// Package watchlist loads the ticker list.
package watchlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads ticker symbols from a flat text file, one per line. Blank
// lines and lines starting with # are ignored. A missing or unreadable
// file is the caller's one fatal precondition.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return tickers, nil
}
