package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
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
	// The readme must list exactly the available topics.
	listed := readmeTopics(t)
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}
	slices.Sort(listed)
	if diff := cmp.Diff(AllTopics(), listed); diff != "" {
		t.Errorf("readme.md topics mismatch (-available +listed):\n%s", diff)
	}
}

func TestGetTopics(t *testing.T) {
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) should fail")
	}

	all, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) unexpected error: %v", err)
	}
	for _, topic := range AllTopics() {
		content, _ := GetTopic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("GetTopics(*) is missing topic %q", topic)
		}
	}
	readme, _ := GetTopic(Readme)
	if strings.Contains(all, readme) {
		t.Error("GetTopics(*) should not contain the readme")
	}
}

func TestTitles(t *testing.T) {
	// Every topic starts with a level 1 heading, used as its title.
	for _, topic := range append(AllTopics(), Readme) {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader([]byte(content)))
			h, ok := root.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic %q does not start with a title", topic)
			}
		})
	}
}

func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("building apr is skipped in short mode")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}

	apr := buildApr(t, t.TempDir())
	newPath := fmt.Sprintf("PATH=%s%c%s", filepath.Dir(apr), os.PathListSeparator, os.Getenv("PATH"))
	env := append(os.Environ(), newPath, "APR_DATA=", "APR_CONFIG=")

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			r := blockRunner{env: env, tmpFolder: t.TempDir()}
			for _, block := range parseMarkdown(t, file) {
				r.runBlock(t, block)
			}
		})
	}
}

// HELPER

// Block is a fenced code block of a markdown file that the test executes.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildApr builds the apr executable in dir and returns its path.
func buildApr(t *testing.T, dir string) string {
	t.Helper()
	output := filepath.Join(dir, "apr")
	if out, err := exec.Command("go", "build", "-o", output, "../apr/").CombinedOutput(); err != nil {
		t.Fatalf("failed to build apr command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown returns the executable blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}

		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: body.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// blockRunner holds the state shared by the blocks of a file.
type blockRunner struct {
	env            []string
	previousOutput string
	tmpFolder      string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n", block.File, block.Line, got, want)
		}
		return
	}
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if block.Type == bashRun {
		r.previousOutput = string(output)
	}
	if err == nil {
		return
	}
	if block.Type == bashCheck {
		t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		return
	}
	t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
}
