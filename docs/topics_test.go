package docs

import (
	"bufio"
	"errors"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed in readme.md as "* name: description".
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	if len(listed) == 0 {
		t.Fatal("readme.md lists no topic")
	}
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	if _, err := GetTopic("missing"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("GetTopic(missing) error = %v, want %v", err, ErrUnknownTopic)
	}
	if _, err := GetTopics("trading", "missing"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("GetTopics(trading, missing) error = %v, want %v", err, ErrUnknownTopic)
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	star, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		content, _ := GetTopic(topic)
		if !strings.Contains(star, content) {
			t.Errorf("GetTopics(*) does not contain topic %q", topic)
		}
	}
	if strings.Contains(star, "Run `stocksim topic") {
		t.Error("GetTopics(*) contains the readme")
	}
}

// TestHeadings checks that every topic is a markdown document starting with a
// single level 1 heading.
func TestHeadings(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append(all, Readme) {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			doc := goldmark.DefaultParser().Parse(text.NewReader(source))

			var h1 int
			err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					h1++
				}
				return ast.WalkContinue, nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if h1 != 1 {
				t.Errorf("topic %q has %d level 1 headings, want 1", topic, h1)
			}
			first, ok := doc.FirstChild().(*ast.Heading)
			if !ok || first.Level != 1 {
				t.Errorf("topic %q does not start with a level 1 heading", topic)
			}
		})
	}
}
