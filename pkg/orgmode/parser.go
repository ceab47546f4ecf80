package orgmode

import (
	"bufio"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/util"
)

// Entry is a TODO or DONE heading read from an Org file.
type Entry struct {
	Draft     model.Draft
	Completed bool
}

var (
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s+(?:\[#([A-C])\]\s*)?(.*?)(?:\s+(:[\w@:]+:))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	effortRegex   = regexp.MustCompile(`^:Effort:\s+(\S+)`)
	categoryRegex = regexp.MustCompile(`^:CATEGORY:\s+(\S+)`)
)

func parseFile(filePath string) ([]Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files in order.
func ParseFiles(filePaths []string) ([]Entry, error) {
	var all []Entry
	for _, filePath := range filePaths {
		entries, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Parse reads TODO and DONE headings. Priority cookies map A/B/C to
// high/medium/low, a DEADLINE sets the due date and body text that is not
// planning or drawer content becomes the notes.
func Parse(r io.Reader, source string) ([]Entry, error) {
	log.Printf("[Org] Parsing %s", source)
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current *Entry
	var notes []string
	inDrawer := false

	flush := func() {
		if current == nil {
			return
		}
		current.Draft.Notes = strings.TrimSpace(strings.Join(notes, "\n"))
		if strings.TrimSpace(current.Draft.Text) != "" {
			entries = append(entries, *current)
		}
		current, notes = nil, nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(raw, "*") {
			flush()
			inDrawer = false
			m := headingRegex.FindStringSubmatch(raw)
			if m == nil {
				continue
			}
			current = &Entry{Completed: m[1] == "DONE"}
			current.Draft.Text = strings.TrimSpace(m[3])
			current.Draft.Priority = priorityFromCookie(m[2])
			if m[4] != "" {
				current.Draft.Tags = strings.Split(strings.Trim(m[4], ":"), ":")
			}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case line == ":PROPERTIES:" || line == ":LOGBOOK:":
			inDrawer = true
		case line == ":END:":
			inDrawer = false
		case inDrawer:
			if m := effortRegex.FindStringSubmatch(line); m != nil {
				if minutes, err := parseEffort(m[1]); err == nil {
					current.Draft.TimeEstimate = &minutes
				}
			} else if m := categoryRegex.FindStringSubmatch(line); m != nil {
				current.Draft.Category = strings.ToLower(m[1])
			}
		case deadlineRegex.MatchString(line):
			current.Draft.DueDate = deadlineRegex.FindStringSubmatch(line)[1]
		case strings.HasPrefix(line, "SCHEDULED:") || strings.HasPrefix(line, "CLOSED:"):
		default:
			notes = append(notes, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func priorityFromCookie(c string) string {
	switch c {
	case "A":
		return string(model.PriorityHigh)
	case "C":
		return string(model.PriorityLow)
	}
	return string(model.PriorityMedium)
}

// parseEffort reads Org effort values such as "0:45" or "1:30" as well as
// anything util.ParseEstimate understands.
func parseEffort(s string) (int, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		d, err := time.ParseDuration(h + "h" + m + "m")
		if err != nil {
			return 0, err
		}
		return int(d / time.Minute), nil
	}
	return util.ParseEstimate(s)
}

// FilterEntries keeps the entries carrying tag.
func FilterEntries(entries []Entry, tag string) []Entry {
	var filtered []Entry
	for _, e := range entries {
		for _, t := range e.Draft.Tags {
			if t == tag {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}
