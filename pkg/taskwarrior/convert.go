package taskwarrior

import (
	"log"
	"strings"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/util"
)

// ToDraft maps a Taskwarrior task onto the draft fields. The project
// becomes the category when it names one; otherwise it is kept as a tag.
func ToDraft(t Task) model.Draft {
	d := model.Draft{
		Text: t.Description,
		Tags: append([]string(nil), t.Tags...),
	}

	if project := strings.ToLower(t.Project); project != "" {
		if cat := model.ParseCategory(project); cat == project {
			d.Category = cat
		} else {
			d.Tags = append(d.Tags, t.Project)
		}
	}

	switch {
	case t.Due != nil && !t.Due.IsZero():
		d.DueDate = model.DateOf(t.Due.Time).String()
	case t.Scheduled != nil && !t.Scheduled.IsZero():
		d.DueDate = model.DateOf(t.Scheduled.Time).String()
	}

	switch strings.ToUpper(t.Priority) {
	case "H":
		d.Priority = string(model.PriorityHigh)
	case "L":
		d.Priority = string(model.PriorityLow)
	default:
		d.Priority = string(model.PriorityMedium)
	}

	if len(t.Annotations) > 0 {
		notes := make([]string, 0, len(t.Annotations))
		for _, a := range t.Annotations {
			notes = append(notes, a.Description)
		}
		d.Notes = strings.Join(notes, "\n")
	}

	if t.Est != "" {
		if minutes, err := util.ParseEstimate(t.Est); err == nil {
			d.TimeEstimate = &minutes
		} else {
			log.Printf("[Taskwarrior] Ignoring estimate %q on %s: %v", t.Est, t.UUID, err)
		}
	}
	return d
}

// Importable reports whether a task should be imported at all. Deleted
// tasks are gone; waiting tasks are hidden until their wait date, so they
// are left in Taskwarrior.
func Importable(t Task) bool {
	if t.Status == DELETED || t.Status == WAITING {
		return false
	}
	return strings.TrimSpace(t.Description) != ""
}
