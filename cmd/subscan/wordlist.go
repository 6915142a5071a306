package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// defaultResolvers seeds the resolver pool when --resolvers is omitted.
var defaultResolvers = []string{"8.8.8.8:53", "1.1.1.1:53", "9.9.9.9:53"}

// loadLines reads one entry per line from path, trimming whitespace and
// skipping blank lines and '#' comments.
func loadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// loadResolvers accepts either a comma-separated list of resolver
// addresses or a path to a file containing one per line.
func loadResolvers(spec string) ([]string, error) {
	if _, err := os.Stat(spec); err == nil {
		return loadLines(spec)
	}

	var resolvers []string
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			resolvers = append(resolvers, part)
		}
	}
	return resolvers, nil
}
